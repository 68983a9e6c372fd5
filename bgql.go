// Package bgql parses Better GraphQL schema documents.
//
// Parse runs the whole front end (lexer, parser, module resolver, binder and
// semantic checker) over one root document and returns a ParseResult. It never
// panics and never returns an error: problems are reported as diagnostics and
// ParseResult.Success is the only validity signal.
//
//	res := bgql.Parse(src, bgql.MapLoader{"scalars": "scalar Date"})
//	if !res.Success {
//		for _, d := range res.Diagnostics {
//			fmt.Printf("%d:%d %s\n", d.StartLine, d.StartColumn, d.Message)
//		}
//	}
package bgql

import (
	"bgql/internal/config"
	"bgql/internal/driver"
	"bgql/internal/modules"
	"bgql/internal/result"
)

type (
	ParseResult  = result.ParseResult
	TypeInfo     = result.TypeInfo
	FieldInfo    = result.FieldInfo
	FragmentInfo = result.FragmentInfo
	Diagnostic   = result.Diagnostic

	// Loader resolves `mod name;` declarations to module sources.
	Loader     = modules.Loader
	LoaderFunc = modules.LoaderFunc
	Source     = modules.Source
	// MapLoader serves modules from memory by name.
	MapLoader = modules.MapLoader

	Config = config.Config
)

// ErrNotFound is returned by loaders for unknown modules.
var ErrNotFound = modules.ErrNotFound

// DefaultConfig returns the settings used by Parse.
func DefaultConfig() Config { return config.Default() }

// Parse checks source with the default settings. With a nil loader every
// external `mod name;` declaration is reported as an error.
func Parse(source string, loader Loader) ParseResult {
	return driver.Parse(source, loader, config.Default())
}

// ParseWithConfig is Parse with explicit settings; a zero Config means defaults.
func ParseWithConfig(source string, loader Loader, cfg Config) ParseResult {
	return driver.Parse(source, loader, cfg)
}

// NewDirLoader returns a loader that reads modules from files under root.
func NewDirLoader(root string) Loader {
	return driver.NewDirLoader(root)
}
