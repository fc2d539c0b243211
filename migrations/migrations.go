// Package migrations встраивает SQL-миграции в бинарь (golang-migrate, источник iofs)
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
