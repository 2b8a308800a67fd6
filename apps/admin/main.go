package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/pfetrack/core"
	kvstore "github.com/trezcool/pfetrack/storage/kv"
	"github.com/trezcool/pfetrack/storage/kvrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up the store
	kv, db, cleanup, err := openStore(conf)
	errAndDie(err)
	defer func() { _ = cleanup() }()

	// start CLI
	cli := commandLine{
		conf:    conf,
		kv:      kv,
		db:      db,
		usrRepo: kvrepos.NewUserRepository(kv),
		backup:  kvrepos.NewBackup(kv),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openStore(conf *core.Config) (core.KVStore, *sqlx.DB, func() error, error) {
	noop := func() error { return nil }

	if conf.Store.Backend == "postgres" {
		if err := kvstore.CreateIfNotExist(conf); err != nil {
			return nil, nil, noop, err
		}
		db, err := kvstore.Open(conf)
		if err != nil {
			return nil, nil, noop, err
		}
		if err = kvstore.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, noop, err
		}
		return kvstore.NewPostgresStore(db), db, db.Close, nil
	}

	kv, err := kvstore.OpenFile(conf.Store.StateFile)
	return kv, nil, noop, err
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
