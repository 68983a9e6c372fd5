package lexer

import (
	"bgql/internal/diag"
	"bgql/internal/source"
)

const (
	// maxTokenLength bounds a single lexeme; longer input is treated as hostile.
	maxTokenLength = 1 << 20
	// DefaultMaxTokens bounds the whole stream.
	DefaultMaxTokens = 1_000_000
)

type Options struct {
	Reporter  diag.Reporter // nil discards diagnostics but lexing continues
	MaxTokens int           // 0 means DefaultMaxTokens
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
