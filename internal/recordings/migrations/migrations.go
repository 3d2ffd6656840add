// Package migrations embeds the schema of a tenant recordings catalog.
package migrations

import "embed"

// FS holds the golang-migrate source files, named {version}_{title}.{up|down}.sql.
//
//go:embed *.sql
var FS embed.FS
