// assets/embed.go
//
// Files compiled into the binary:
//   - config.yaml: the default configuration, used when no file is found.
//   - sql/*.sql:   leaderboard schema migrations, applied in lexical order.
package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed config.yaml sql/*.sql
var FS embed.FS

// Migration is one embedded schema file.
type Migration struct {
	Name string
	SQL  string
}

// DefaultConfig returns the embedded default config.yaml.
func DefaultConfig() ([]byte, error) {
	return FS.ReadFile("config.yaml")
}

// Migrations returns the embedded SQL files sorted by name.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: n, SQL: string(b)})
	}
	return out, nil
}
