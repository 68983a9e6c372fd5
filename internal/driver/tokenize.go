package driver

import (
	"fmt"

	"bgql/internal/config"
	"bgql/internal/diag"
	"bgql/internal/lexer"
	"bgql/internal/source"
	"bgql/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize лексирует файл целиком, включая завершающий EOF
func Tokenize(path string, cfg config.Config) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return tokenizeFile(fs, fileID, cfg), nil
}

// TokenizeSource is Tokenize for in-memory text.
func TokenizeSource(name, text string, cfg config.Config) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.AddSource(name, text), cfg)
}

func tokenizeFile(fs *source.FileSet, fileID source.FileID, cfg config.Config) *TokenizeResult {
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(cfg.Limits.MaxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter:  diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		MaxTokens: cfg.Limits.MaxTokens,
	})
	tokens := lx.Tokenize()
	bag.Sort()
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
}
