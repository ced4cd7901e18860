// Package migrations embeds the schema migrations of each SQL dialect.
// Files follow golang-migrate naming: NNNNNN_name.up.sql / .down.sql.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// FS holds one directory per dialect: postgres, mysql and sqlite
//
//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var FS embed.FS

// UpStatements returns the up migrations of dialect in version order
func UpStatements(dialect string) ([]string, error) {
	names, err := fs.Glob(FS, dialect+"/*.up.sql")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}
	sort.Strings(names)

	stmts := make([]string, 0, len(names))
	for _, name := range names {
		b, err := fs.ReadFile(FS, name)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, string(b))
	}
	return stmts, nil
}
