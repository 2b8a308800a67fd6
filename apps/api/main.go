package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/pfetrack/apps/api/echo"
	"github.com/trezcool/pfetrack/core"
	"github.com/trezcool/pfetrack/core/appointment"
	"github.com/trezcool/pfetrack/core/notification"
	"github.com/trezcool/pfetrack/core/project"
	"github.com/trezcool/pfetrack/core/tracksheet"
	"github.com/trezcool/pfetrack/core/user"
	emailsvc "github.com/trezcool/pfetrack/services/email"
	logsvc "github.com/trezcool/pfetrack/services/logger"
	kvstore "github.com/trezcool/pfetrack/storage/kv"
	"github.com/trezcool/pfetrack/storage/kvrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug)

	// set up the store
	kv, cleanup, err := setUpStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up store: %v", err), err)
	}
	defer func() {
		if err = cleanup(); err != nil {
			storeLogger.Error("failed to close store", err)
		}
	}()

	// seed-if-absent; existing data always wins
	if err = kvrepos.Init(kv, kvrepos.DefaultSeed()); err != nil {
		logger.Fatal(fmt.Sprintf("initializing store: %v", err), err)
	}

	// set up repositories
	projRepo := kvrepos.NewProjectRepository(kv)
	apptRepo := kvrepos.NewAppointmentRepository(kv, projRepo)
	notifRepo := kvrepos.NewNotificationRepository(kv)
	sheetRepo := kvrepos.NewSheetRepository(kv)
	usrRepo := kvrepos.NewUserRepository(kv)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}
	projSvc := project.NewService(projRepo)
	apptSvc := appointment.NewService(apptRepo, mailSvc, conf)
	notifSvc := notification.NewService(notifRepo)
	sheetSvc := tracksheet.NewService(sheetRepo)
	// profile changes propagate into the denormalized copies
	usrSvc := user.NewService(usrRepo, projRepo, apptRepo)

	backup := kvrepos.NewBackup(kv)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	appointment.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			ProjectSvc: projSvc,
			ApptSvc:    apptSvc,
			NotifSvc:   notifSvc,
			SheetSvc:   sheetSvc,
			Backup:     backup,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpStore opens the configured key-value backend.
func setUpStore(conf *core.Config) (core.KVStore, func() error, error) {
	noop := func() error { return nil }

	switch conf.Store.Backend {
	case "postgres":
		if err := kvstore.CreateIfNotExist(conf); err != nil {
			return nil, noop, err
		}
		db, err := kvstore.Open(conf)
		if err != nil {
			return nil, noop, err
		}
		if err = kvstore.Migrate(db); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return kvstore.NewPostgresStore(db), db.Close, nil
	default:
		kv, err := kvstore.OpenFile(conf.Store.StateFile)
		return kv, noop, err
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
