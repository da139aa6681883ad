package main

import (
	"errors"

	sqlxrepos "github.com/shuleapp/shule/storage/database/sqlx"
)

var migrateFunc = sqlxrepos.Migrate // mockable

func (cli *commandLine) migrate() error {
	if cli.db == nil {
		return errors.New("migrate requires the postgres engine")
	}
	return migrateFunc(cli.db)
}
