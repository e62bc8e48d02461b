// Package migrations embebe los SQL de goose para el esquema del core.
package migrations

import "embed"

// Migrations expone los archivos .sql embebidos para goose.SetBaseFS.
//
//go:embed *.sql
var Migrations embed.FS
