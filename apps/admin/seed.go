package main

import (
	"fmt"

	"github.com/trezcool/pfetrack/storage/kvrepos"
)

// seed fills missing collections with the default demo data set. Collections
// that already hold data are left exactly as they are.
func (cli *commandLine) seed() error {
	if err := kvrepos.Init(cli.kv, kvrepos.DefaultSeed()); err != nil {
		return err
	}
	fmt.Println("store seeded")
	return nil
}
