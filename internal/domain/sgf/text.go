package sgf

import "strings"

func isNewline(c byte) bool {
	return c == '\n' || c == '\r'
}

// newlineLen returns the length of the line break starting at s[i]:
// "\r\n" and "\n\r" count as one break.
func newlineLen(s string, i int) int {
	if i+1 < len(s) && isNewline(s[i+1]) && s[i+1] != s[i] {
		return 2
	}
	return 1
}

// decodeText resolves escapes and soft line breaks of a raw value and
// normalizes whitespace. Line breaks become '\n' when keepNewlines is set,
// spaces otherwise; every other whitespace byte becomes a space.
func decodeText(raw string, keepNewlines bool) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' {
			if i+1 >= len(raw) {
				break
			}
			i++
			c = raw[i]
			if isNewline(c) {
				i += newlineLen(raw, i) - 1
				continue
			}
		}
		switch {
		case isNewline(c):
			i += newlineLen(raw, i) - 1
			if keepNewlines {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
		case c == '\t' || c == '\v' || c == '\f':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape resolves escapes and soft line breaks without touching other
// whitespace.
func Unescape(raw string) string {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			break
		}
		i++
		if isNewline(raw[i]) {
			i += newlineLen(raw, i) - 1
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}

// NormalizeText applies the Text rules to an unescaped string.
func NormalizeText(raw string) string {
	return decodeText(raw, true)
}

// NormalizeSimpleText applies the SimpleText rules: every whitespace run
// collapses to one space and the ends are trimmed.
func NormalizeSimpleText(raw string) string {
	return strings.Join(strings.Fields(decodeText(raw, false)), " ")
}

// SplitCompose splits a raw value at its first unescaped colon.
func SplitCompose(raw string) (left, right string, ok bool) {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case ':':
			return raw[:i], raw[i+1:], true
		}
	}
	return raw, "", false
}

// AppendEscaped appends s with the escapes needed inside brackets. Colons
// are escaped only inside a composed value.
func AppendEscaped(dst []byte, s string, composed bool) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == ']' || (composed && c == ':') {
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return dst
}
