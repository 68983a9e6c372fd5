package driver

import (
	"bgql/internal/config"
	"bgql/internal/modules"
	"bgql/internal/result"
)

// RootName labels the in-memory root document; public diagnostics never carry it.
const RootName = "schema.bgql"

// Parse runs the whole pipeline over text and returns the public result.
// Warnings are kept and stages always run to the end.
func Parse(text string, loader modules.Loader, cfg config.Config) result.ParseResult {
	return DiagnoseSource(RootName, text, Options{Config: cfg, Loader: loader}).Output
}
