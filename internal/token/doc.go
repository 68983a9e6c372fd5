// Package token defines lexical token kinds for bgql schema documents.
//
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Keywords are contextual in name positions; Token.IsName accepts them.
//   - Comments (# ...) and whitespace live in Token.Leading, never in the stream.
//   - Built-in scalar names (ID, String, Int, Float, Boolean) are identifiers
//     recognized by the binder, not by the lexer.
package token
