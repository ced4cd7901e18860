// Package repository persists formulas, screening results and the bond
// snapshot through database/sql. Queries are built with squirrel so the
// same code serves postgres, mysql and sqlite.
package repository

import (
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ncobase/screener/data"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("record not found")

// Repositories groups every repository of the application
type Repositories struct {
	Formula FormulaRepository
	Result  ResultRepository
	Bond    BondRepository
}

// New creates all repositories on d
func New(d *data.Data) *Repositories {
	return &Repositories{
		Formula: NewFormulaRepository(d),
		Result:  NewResultRepository(d),
		Bond:    NewBondRepository(d),
	}
}

// builder returns a statement builder with the placeholder style of the dialect
func builder(dialect string) sq.StatementBuilderType {
	if dialect == "postgres" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
