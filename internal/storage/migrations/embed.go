// Package migrations applies the embedded schema for both backends at
// service start. Every file is idempotent, so reruns are safe.
package migrations

import "embed"

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed clickhouse/*.sql
var clickhouseFS embed.FS
