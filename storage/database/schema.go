package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kjboard/board/core"
	"github.com/kjboard/board/core/admin"
)

type statement struct {
	name     string
	sqlite   string
	postgres string
}

var schema = []statement{
	{
		name: "students",
		sqlite: `CREATE TABLE IF NOT EXISTS students (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			roll_number TEXT UNIQUE NOT NULL,
			class TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		postgres: `CREATE TABLE IF NOT EXISTS students (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			roll_number TEXT UNIQUE NOT NULL,
			class TEXT NOT NULL,
			email TEXT,
			phone TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	},
	{
		name: "results",
		sqlite: `CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id INTEGER NOT NULL REFERENCES students(id),
			subject TEXT NOT NULL,
			marks INTEGER NOT NULL CHECK (marks >= 0),
			total_marks INTEGER NOT NULL CHECK (total_marks >= 0),
			exam_date DATE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		postgres: `CREATE TABLE IF NOT EXISTS results (
			id BIGSERIAL PRIMARY KEY,
			student_id BIGINT NOT NULL REFERENCES students(id),
			subject TEXT NOT NULL,
			marks INTEGER NOT NULL CHECK (marks >= 0),
			total_marks INTEGER NOT NULL CHECK (total_marks >= 0),
			exam_date DATE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	},
	{
		name:     "results_student_id_idx",
		sqlite:   `CREATE INDEX IF NOT EXISTS results_student_id_idx ON results (student_id)`,
		postgres: `CREATE INDEX IF NOT EXISTS results_student_id_idx ON results (student_id)`,
	},
	{
		name: "announcements",
		sqlite: `CREATE TABLE IF NOT EXISTS announcements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'normal' CHECK (priority IN ('low', 'normal', 'high', 'urgent')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		postgres: `CREATE TABLE IF NOT EXISTS announcements (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'normal' CHECK (priority IN ('low', 'normal', 'high', 'urgent')),
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	},
	{
		name: "admins",
		sqlite: `CREATE TABLE IF NOT EXISTS admins (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		postgres: `CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash BYTEA NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	},
}

func (s statement) query(driver string) string {
	if driver == EnginePostgres {
		return s.postgres
	}
	return s.sqlite
}

// AdminStore is the part of admin.Repository the admin seed needs.
type AdminStore interface {
	CountAdmins(ctx context.Context, exec ...core.DBExecutor) (int, error)
	CreateAdmin(ctx context.Context, a admin.Admin, exec ...core.DBExecutor) (admin.Admin, error)
}

// EnsureSchema creates the missing tables, then seeds the default admin through admins when there is none.
// Statements run independently: a failure is logged and the next statement still runs.
// The first error is returned.
func EnsureSchema(ctx context.Context, db *sqlx.DB, admins AdminStore, conf *core.Config, logger core.Logger) error {
	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	adminsReady := false
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt.query(db.DriverName())); err != nil {
			err = errors.Wrapf(err, "creating %s", stmt.name)
			logger.Error("database.EnsureSchema", err)
			keep(err)
			continue
		}
		if stmt.name == "admins" {
			adminsReady = true
		}
	}

	if adminsReady {
		if err := seedAdmin(ctx, admins, conf, logger); err != nil {
			logger.Error("database.EnsureSchema", err)
			keep(err)
		}
	}
	return firstErr
}

func seedAdmin(ctx context.Context, admins AdminStore, conf *core.Config, logger core.Logger) error {
	count, err := admins.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	adm := admin.Admin{Username: conf.Admin.SeedUsername, CreatedAt: time.Now().UTC()}
	if err := adm.SetPassword(conf.Admin.SeedPassword); err != nil {
		return errors.Wrap(err, "hashing seed password")
	}
	if _, err := admins.CreateAdmin(ctx, adm); err != nil {
		return errors.Wrap(err, "seeding admin")
	}
	logger.Info("default admin created: " + adm.Username)
	return nil
}
