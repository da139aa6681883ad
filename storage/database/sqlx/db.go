package sqlxrepos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/shuleapp/shule/core"
)

func Open(conf core.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		conf.Host, conf.Port, conf.User, conf.Password, conf.Name, conf.SSLMode,
	)
	db, err := sqlx.Connect("postgres", dsn)
	return db, errors.Wrap(err, "connecting to postgres")
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            SERIAL PRIMARY KEY,
	name          TEXT        NOT NULL,
	email         TEXT        NOT NULL DEFAULT '',
	role          TEXT        NOT NULL,
	class_name    TEXT        NOT NULL DEFAULT '',
	is_active     BOOLEAN     NOT NULL DEFAULT TRUE,
	pin_hash      BYTEA,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_login    TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_uniq ON users (email) WHERE email <> '';

CREATE TABLE IF NOT EXISTS classes (
	id         SERIAL PRIMARY KEY,
	name       TEXT        NOT NULL,
	teacher_id INTEGER     NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assignments (
	id          SERIAL PRIMARY KEY,
	title       TEXT        NOT NULL,
	subject     TEXT        NOT NULL DEFAULT '',
	description TEXT        NOT NULL DEFAULT '',
	due_date    TIMESTAMPTZ,
	class_id    INTEGER     NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
	status      TEXT        NOT NULL DEFAULT 'pending',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS submissions (
	id            SERIAL PRIMARY KEY,
	assignment_id INTEGER     NOT NULL REFERENCES assignments (id) ON DELETE CASCADE,
	student_id    INTEGER     NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	content       TEXT        NOT NULL DEFAULT '',
	grade         TEXT        NOT NULL DEFAULT '',
	feedback      TEXT        NOT NULL DEFAULT '',
	status        TEXT        NOT NULL DEFAULT 'submitted',
	submitted_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS resources (
	id          SERIAL PRIMARY KEY,
	title       TEXT        NOT NULL,
	type        TEXT        NOT NULL,
	content     TEXT        NOT NULL DEFAULT '',
	subject     TEXT        NOT NULL DEFAULT '',
	grade_level TEXT        NOT NULL DEFAULT '',
	teacher_id  INTEGER     NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema. Statements are idempotent; there is no
// versioned migration history.
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return errors.Wrap(err, "applying schema")
}
