package web

import "embed"

// Templates holds the HTML page templates. Every page is parsed together
// with base.html and executed as "base".
//
//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
