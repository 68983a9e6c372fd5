package sema

import (
	"fmt"

	"bgql/internal/diag"
	"bgql/internal/source"
)

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...any) {
	if b := diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)); b != nil {
		b.Emit()
	}
}

func (tc *typeChecker) warn(code diag.Code, span source.Span, format string, args ...any) {
	if b := diag.ReportWarning(tc.reporter, code, span, fmt.Sprintf(format, args...)); b != nil {
		b.Emit()
	}
}

// reportWithNote attaches one secondary location, usually the earlier
// declaration a duplicate collides with.
func (tc *typeChecker) reportWithNote(code diag.Code, span, noteSpan source.Span, note, format string, args ...any) {
	diag.ReportError(tc.reporter, code, span, fmt.Sprintf(format, args...)).
		WithNote(noteSpan, note).
		Emit()
}
