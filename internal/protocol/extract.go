package protocol

import (
	"strconv"
	"strings"
)

// The extractors below work on a small structured-text subset. They never fail: a
// missing or malformed field yields the zero value for its type.

// ExtractString returns the text between `"key":"` and the next unescaped quote, with
// the escapes produced by Escape undone.
func ExtractString(doc, key string) string {
	search := `"` + key + `":"`
	start := strings.Index(doc, search)
	if start < 0 {
		return ""
	}
	start += len(search)
	for i := start; i < len(doc); i++ {
		switch doc[i] {
		case '\\':
			i++
		case '"':
			return Unescape(doc[start:i])
		}
	}
	return ""
}

// ExtractInt parses the value after `"key":` up to the next ',' or '}'.
func ExtractInt(doc, key string) int {
	search := `"` + key + `":`
	start := strings.Index(doc, search)
	if start < 0 {
		return 0
	}
	start += len(search)
	end := strings.IndexAny(doc[start:], ",}")
	if end < 0 {
		return 0
	}
	n, _ := leadingInt(doc[start : start+end])
	return n
}

// ExtractBool reports whether the value after `"key":` is literally true.
func ExtractBool(doc, key string) bool {
	search := `"` + key + `":`
	start := strings.Index(doc, search)
	if start < 0 {
		return false
	}
	return strings.HasPrefix(doc[start+len(search):], "true")
}

// leadingInt parses an optional sign and a run of digits after leading whitespace,
// ignoring whatever follows. It reports false when no digits are present or the value
// does not fit an int.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j == i {
		return 0, false
	}
	n, err := strconv.Atoi(s[:j])
	if err != nil {
		return 0, false
	}
	return n, true
}

// enclosedSpan finds `"key":` immediately followed by open and returns the text up to
// the matching close, skipping quoted strings and escaped characters. A truncated
// document yields everything after the opener.
func enclosedSpan(doc, key string, open, close byte) (string, bool) {
	search := `"` + key + `":` + string(open)
	start := strings.Index(doc, search)
	if start < 0 {
		return "", false
	}
	start += len(search)
	depth := 1
	inString, escaped := false, false
	for i := start; i < len(doc); i++ {
		c := doc[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return doc[start:i], true
			}
		}
	}
	return doc[start:], true
}

// splitObjects splits the inside of an array into its top-level elements. Commas count
// as separators only outside strings and at brace depth zero.
func splitObjects(span string) []string {
	var out []string
	depth := 0
	inString, escaped := false, false
	from := 0
	emit := func(to int) {
		if part := strings.TrimSpace(span[from:to]); part != "" {
			out = append(out, part)
		}
	}
	for i := 0; i < len(span); i++ {
		c := span[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
		case c == ',' && depth == 0:
			emit(i)
			from = i + 1
		}
	}
	emit(len(span))
	return out
}

// objectAfter returns the naive `"key":{...}` span ending at the first '}'. It is only
// used for objects that have no nested objects of their own.
func objectAfter(doc, key string) (string, bool) {
	search := `"` + key + `":`
	start := strings.Index(doc, search)
	if start < 0 {
		return "", false
	}
	start += len(search)
	end := strings.IndexByte(doc[start:], '}')
	if end < 0 {
		return "", false
	}
	return doc[start : start+end+1], true
}
