package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/shuleapp/shule/apps/api/echo"
	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/auth"
	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
	aisvc "github.com/shuleapp/shule/services/ai"
	emailsvc "github.com/shuleapp/shule/services/email"
	logsvc "github.com/shuleapp/shule/services/logger"
	inmemdb "github.com/shuleapp/shule/storage/database/inmem"
	sqlxrepos "github.com/shuleapp/shule/storage/database/sqlx"
	"github.com/shuleapp/shule/storage/sessionstore"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, core.Conf)

	usrRepo, schoolSvc, closeDB, err := setupStorage()
	if err != nil {
		logger.Fatal("setting up storage", err)
	}
	defer closeDB()

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService()
	}
	usrSvc := user.NewService(usrRepo, mailSvc)

	var store auth.Store
	if core.Conf.Redis.Enabled {
		store = sessionstore.NewRedisStore(core.Conf.Redis)
	} else {
		store = sessionstore.NewInMemStore()
	}
	sessionMgr := auth.NewManager(store, core.Conf.Server.SessionTTL)

	var ai aisvc.Service
	if core.Conf.AI.APIKey != "" {
		ai = aisvc.NewGeminiService(core.Conf.AI)
	} else {
		ai = aisvc.NewDummyService()
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:       core.Conf.Server.Addr(),
			UserSvc:    usrSvc,
			SchoolSvc:  schoolSvc,
			SessionMgr: sessionMgr,
			AISvc:      ai,
			Logger:     logger,
			Shutdown:   func() { shutdownCh <- syscall.SIGTERM },
		},
	)
	go app.Start()

	<-shutdownCh
	std.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(ctx); err != nil {
		logger.Error("stopping server", err)
	}
}

// setupStorage opens the configured database engine and returns the user
// repository and school service wired to it.
func setupStorage() (user.Repository, *school.Service, func(), error) {
	if core.Conf.Database.Engine == "postgres" {
		db, err := sqlxrepos.Open(core.Conf.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := sqlxrepos.Migrate(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		schoolSvc := school.NewService(
			sqlxrepos.NewClassRepository(db),
			sqlxrepos.NewAssignmentRepository(db),
			sqlxrepos.NewSubmissionRepository(db),
			sqlxrepos.NewResourceRepository(db),
		)
		return sqlxrepos.NewUserRepository(db), schoolSvc, func() { db.Close() }, nil
	}

	db := inmemdb.NewDB()
	schoolSvc := school.NewService(
		inmemdb.NewClassRepository(db),
		inmemdb.NewAssignmentRepository(db),
		inmemdb.NewSubmissionRepository(db),
		inmemdb.NewResourceRepository(db),
	)
	return inmemdb.NewUserRepository(db), schoolSvc, func() {}, nil
}
