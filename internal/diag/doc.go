// Package diag defines the diagnostic model shared by every stage of the bgql
// front end.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error. Info never reaches the public ParseResult.
//   - Code: numeric identifier grouped by stage (LEX, SYN, SEM, IO, MOD) with a
//     stable string form from Code.ID.
//   - Message: short, actionable text. Messages name the offending identifiers.
//   - Primary: the source.Span the diagnostic points at.
//   - Notes: secondary spans ("previous declaration here").
//   - Fixes: optional suggested edits; nothing in the front end applies them.
//
// # Emitting
//
// Stages receive a Reporter and never hold a Bag directly. The driver creates
// one Bag per invocation, wraps it in a BagReporter and passes it down, so two
// invocations never share a sink and a stage can be tested against its own
// empty Bag. ReportBuilder (ReportError, ReportWarning, ReportInfo) helps when a
// diagnostic carries notes or fixes.
//
// The Bag is append-only while stages run. The driver calls Sort and Dedup
// exactly once before the result assembler reads it.
//
// # Consumers
//
//   - internal/result converts diagnostics into the JSON shape of ParseResult.
//   - internal/diagfmt renders pretty, json, sarif and short formats.
package diag
