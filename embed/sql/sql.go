package sql

import _ "embed"

// Schema creates the tasks table and its indexes. It is safe to apply more
// than once.
//
//go:embed schema.sql
var Schema string
