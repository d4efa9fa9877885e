// Package sqlite is the default store driver, backed by the pure-Go
// modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/store/drivers/sqlstore"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// dsnParams are appended to every DSN. BEGIN IMMEDIATE makes write
// transactions take the database lock up front, which is what serialises
// concurrent Issue and Redeem calls.
const dsnParams = "_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

type dialect struct{}

func (dialect) Name() string               { return "sqlite" }
func (dialect) Rebind(query string) string { return query }
func (dialect) ForUpdate() string          { return "" }

func (dialect) IsUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// NewStore opens (creating if needed) the database file at path.
func NewStore(path string) (*sqlstore.Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, err
	}
	return sqlstore.New(db, dialect{}, applyMigrations), nil
}

// DSN builds a modernc DSN for a file path, keeping any parameters the
// caller already supplied.
func DSN(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + dsnParams
}
