// Package sqlstore is the database/sql implementation of store.Store shared
// by the sqlite and postgres drivers. Queries are written with ? placeholders
// and rewritten per Dialect.
package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect captures what differs between the supported databases.
type Dialect interface {
	// Name is the database/sql driver name.
	Name() string

	// Rebind rewrites ? placeholders into the dialect's syntax.
	Rebind(query string) string

	// ForUpdate is appended to SELECTs that must lock the rows they read.
	// SQLite serialises writers with BEGIN IMMEDIATE instead and returns "".
	ForUpdate() string

	// IsUniqueViolation reports whether err came from a UNIQUE or PRIMARY KEY
	// constraint.
	IsUniqueViolation(err error) bool
}

// RebindDollar converts ? placeholders to $1, $2, ... None of our queries
// contain a literal question mark.
func RebindDollar(query string) string {
	if !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
