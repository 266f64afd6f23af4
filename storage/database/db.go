package database

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/kjboard/board/core"
)

// Engines
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

func init() {
	// modernc registers "sqlite"; sqlx only knows "sqlite3" as a `?` driver.
	sqlx.BindDriver(EngineSQLite, sqlx.QUESTION)
}

// sqliteDSN appends the per-connection pragmas and the time write format to a file path.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Open connects to the configured engine and waits for it to answer.
func Open(conf *core.Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch conf.Database.Engine {
	case EngineSQLite, "":
		db, err = sqlx.Open(EngineSQLite, sqliteDSN(conf.Database.URL))
		if err != nil {
			return nil, errors.Wrap(err, "opening sqlite database")
		}
		// single writer
		db.SetMaxOpenConns(1)
	case EnginePostgres:
		db, err = sqlx.Open(EnginePostgres, conf.Database.URL)
		if err != nil {
			return nil, errors.Wrap(err, "opening postgres database")
		}
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Database.Engine)
	}

	if err = ping(db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err = db.PingContext(ctx)
		cancel()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}
