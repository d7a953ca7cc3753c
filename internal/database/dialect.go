package database

import (
	"strconv"
	"strings"
)

// Dialect captures the few places where SQLite and PostgreSQL disagree:
// bind placeholders and the auto-increment primary key DDL.
type Dialect struct {
	// Name is the config driver name ("sqlite" or "postgres").
	Name string

	// numbered is true when placeholders are written $1, $2, ...
	numbered bool

	// createSurveys creates the surveys table if it does not exist.
	createSurveys string
}

var (
	// SQLite uses an AUTOINCREMENT rowid alias so ids are never reused,
	// even after rows are removed by an administrator.
	SQLite = Dialect{
		Name:     "sqlite",
		numbered: false,
		createSurveys: `CREATE TABLE IF NOT EXISTS surveys (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	user_name TEXT    NOT NULL,
	age       INTEGER NOT NULL,
	feedback  TEXT    NOT NULL,
	rating    INTEGER NOT NULL
)`,
	}

	// Postgres stores age and rating as BIGINT: they are bound from Go
	// int64, and an INTEGER column would reject values above 2^31-1.
	Postgres = Dialect{
		Name:     "postgres",
		numbered: true,
		createSurveys: `CREATE TABLE IF NOT EXISTS surveys (
	id        BIGSERIAL PRIMARY KEY,
	user_name TEXT   NOT NULL,
	age       BIGINT NOT NULL,
	feedback  TEXT   NOT NULL,
	rating    BIGINT NOT NULL
)`,
	}
)

// Rebind rewrites '?' placeholders into $N for numbered dialects.
// Queries passed here must not contain '?' inside string literals.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
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
