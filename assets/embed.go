// assets/embed.go
//
// Embedded default data shipped with the binary:
//   - muni_simple_routes.json: simplified SF Muni route shapes (GeoJSON).
//   - sql/*.sql:               SQLite migrations for the guess ledger.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed muni_simple_routes.json sql/*.sql
var FS embed.FS

// RoutesGeoJSON returns the raw embedded route collection.
func RoutesGeoJSON() ([]byte, error) {
	return FS.ReadFile("muni_simple_routes.json")
}

// Migrations returns the embedded migration directory rooted at sql/.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
