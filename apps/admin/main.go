package main

import (
	"log"
	"os"

	"github.com/shuleapp/shule/core"
	"github.com/shuleapp/shule/core/school"
	"github.com/shuleapp/shule/core/user"
	emailsvc "github.com/shuleapp/shule/services/email"
	inmemdb "github.com/shuleapp/shule/storage/database/inmem"
	sqlxrepos "github.com/shuleapp/shule/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	cli, cleanup, err := setup()
	errAndDie(err)
	defer cleanup()

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func setup() (*commandLine, func(), error) {
	mailSvc := emailsvc.NewConsoleService()

	if core.Conf.Database.Engine == "postgres" {
		db, err := sqlxrepos.Open(core.Conf.Database)
		if err != nil {
			return nil, nil, err
		}
		cli := &commandLine{
			db:     db,
			usrSvc: user.NewService(sqlxrepos.NewUserRepository(db), mailSvc),
			schoolSvc: school.NewService(
				sqlxrepos.NewClassRepository(db),
				sqlxrepos.NewAssignmentRepository(db),
				sqlxrepos.NewSubmissionRepository(db),
				sqlxrepos.NewResourceRepository(db),
			),
		}
		return cli, func() { db.Close() }, nil
	}

	db := inmemdb.NewDB()
	cli := &commandLine{
		usrSvc: user.NewService(inmemdb.NewUserRepository(db), mailSvc),
		schoolSvc: school.NewService(
			inmemdb.NewClassRepository(db),
			inmemdb.NewAssignmentRepository(db),
			inmemdb.NewSubmissionRepository(db),
			inmemdb.NewResourceRepository(db),
		),
	}
	return cli, func() {}, nil
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
