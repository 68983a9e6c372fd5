package diag

import "bgql/internal/source"

func keyOf(code Code, sev Severity, file source.FileID, start, end uint32, msg string) dedupKey {
	return dedupKey{code: code, sev: sev, span: spanKey{file: uint32(file), start: start, end: end}, msg: msg}
}

// DedupReporter suppresses repeats of the same code, severity, span and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	k := keyOf(code, sev, primary.File, primary.Start, primary.End, msg)
	if _, ok := r.seen[k]; ok {
		return
	}
	r.seen[k] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}
