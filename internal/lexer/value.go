package lexer

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// StringValue decodes the text of a StringLit token. Invalid escapes were
// reported by the lexer; here they are kept verbatim.
func StringValue(raw string) string {
	if len(raw) < 2 {
		return ""
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return strings.ToValidUTF8(body, "\uFFFD")
	}
	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '"', '\\', '/':
			sb.WriteByte(body[i])
		case 'u':
			r, n := decodeUnicodeEscape(body[i+1:])
			if n == 0 {
				sb.WriteString(`\u`)
				continue
			}
			i += n
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(body[i])
		}
	}
	return strings.ToValidUTF8(sb.String(), "\uFFFD")
}

// decodeUnicodeEscape reads XXXX (and a following \uXXXX low surrogate).
func decodeUnicodeEscape(s string) (rune, int) {
	if len(s) < 4 {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, 0
	}
	r := rune(v)
	if utf16.IsSurrogate(r) && len(s) >= 10 && s[4] == '\\' && s[5] == 'u' {
		if lo, err := strconv.ParseUint(s[6:10], 16, 32); err == nil {
			if pair := utf16.DecodeRune(r, rune(lo)); pair != utf8.RuneError {
				return pair, 10
			}
		}
	}
	if utf16.IsSurrogate(r) {
		return utf8.RuneError, 4
	}
	return r, 4
}

// BlockStringValue implements the GraphQL block string algorithm: common
// indentation is removed and leading/trailing blank lines are dropped.
func BlockStringValue(raw string) string {
	if len(raw) < 6 {
		return ""
	}
	body := strings.ReplaceAll(raw[3:len(raw)-3], `\"""`, `"""`)
	lines := strings.Split(body, "\n")

	common := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue
		}
		if common < 0 || indent < common {
			common = indent
		}
	}
	if common > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= common {
				lines[i] = lines[i][common:]
			} else {
				lines[i] = ""
			}
		}
	}
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.ToValidUTF8(strings.Join(lines, "\n"), "\uFFFD")
}

func leadingWhitespace(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func isBlank(s string) bool {
	return leadingWhitespace(s) == len(s)
}
