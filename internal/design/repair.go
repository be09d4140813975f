package design

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fenceClosed = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fenceOpen   = regexp.MustCompile("(?s)```json\\s*(.*)$")
)

// ExtractJSON locates the JSON object in raw model text. It tries, in order, a
// ```json fence, the object containing "mode", the object containing
// "updatedCss", and the first top-level object. An object that never closes
// runs to the end of the text.
func ExtractJSON(raw string) (string, error) {
	if m := fenceClosed.FindStringSubmatch(raw); m != nil && strings.Contains(m[1], "{") {
		return strings.TrimSpace(m[1]), nil
	}
	if m := fenceOpen.FindStringSubmatch(raw); m != nil && strings.Contains(m[1], "{") {
		return strings.TrimSpace(m[1]), nil
	}
	for _, key := range []string{`"mode"`, `"updatedCss"`} {
		if s, ok := spanContaining(raw, key); ok {
			return s, nil
		}
	}
	if start := strings.IndexByte(raw, '{'); start >= 0 {
		return strings.TrimSpace(raw[start:spanEnd(raw, start)]), nil
	}
	return "", ErrNoJSON
}

// spanContaining returns the outermost object that encloses key.
func spanContaining(raw, key string) (string, bool) {
	at := strings.Index(raw, key)
	if at < 0 {
		return "", false
	}
	for start := strings.IndexByte(raw, '{'); start >= 0 && start < at; {
		end := spanEnd(raw, start)
		if end > at {
			return strings.TrimSpace(raw[start:end]), true
		}
		next := strings.IndexByte(raw[end:], '{')
		if next < 0 {
			break
		}
		start = end + next
	}
	return "", false
}

// spanEnd returns the index just past the brace matching raw[start], or
// len(raw) if it never closes.
func spanEnd(raw string, start int) int {
	depth := 0
	inStr, esc := false, false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(raw)
}

// scanState is where a left-to-right scan of possibly truncated JSON ended.
type scanState struct {
	stack []byte

	inString  bool
	strStart  int
	strIsKey  bool
	keyStart  int // opening quote of a completed key still waiting for ':'
	expectKey bool
}

func scan(s string) scanState {
	st := scanState{keyStart: -1}
	esc := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.inString {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				st.inString = false
				if st.strIsKey {
					st.keyStart = st.strStart
				}
			}
			continue
		}
		switch c {
		case '"':
			st.inString = true
			st.strStart = i
			st.strIsKey = st.top() == '{' && st.expectKey
		case '{':
			st.stack = append(st.stack, '{')
			st.expectKey = true
		case '[':
			st.stack = append(st.stack, '[')
			st.expectKey = false
		case '}', ']':
			if len(st.stack) > 0 {
				st.stack = st.stack[:len(st.stack)-1]
			}
			st.expectKey = false
		case ':':
			st.expectKey = false
			st.keyStart = -1
		case ',':
			st.expectKey = st.top() == '{'
			st.keyStart = -1
		}
	}
	return st
}

func (st scanState) top() byte {
	if len(st.stack) == 0 {
		return 0
	}
	return st.stack[len(st.stack)-1]
}

// Balanced reports whether every brace and bracket outside strings is closed
// and no string is left open.
func Balanced(s string) bool {
	st := scan(s)
	return len(st.stack) == 0 && !st.inString
}

// Repair extracts the JSON object from raw and heals truncation: a trailing
// partial key is dropped, a trailing partial string value becomes "", a
// dangling comma is removed, a bare colon gets null, and open brackets and
// braces are closed innermost first. Balanced input is returned unchanged
// with truncated=false. The result is best effort and may still not parse.
func Repair(raw string) (jsonText string, truncated bool, err error) {
	s, err := ExtractJSON(raw)
	if err != nil {
		return "", false, err
	}
	if Balanced(s) {
		return s, false, nil
	}

	st := scan(s)
	if st.inString {
		if st.strIsKey {
			s = dropKey(s, st.strStart)
		} else {
			s = s[:st.strStart] + `""`
		}
	} else if st.keyStart >= 0 {
		s = dropKey(s, st.keyStart)
	}

	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, ",")
	if strings.HasSuffix(s, ":") {
		s += "null"
	}

	st = scan(s)
	var b strings.Builder
	b.WriteString(s)
	for i := len(st.stack) - 1; i >= 0; i-- {
		if st.stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true, nil
}

// dropKey cuts s at the key whose opening quote is at quote, along with the
// comma before it.
func dropKey(s string, quote int) string {
	head := strings.TrimRight(s[:quote], " \t\r\n")
	return strings.TrimSuffix(head, ",")
}

// Parse runs Repair and decodes the result into a generic object.
func Parse(raw string) (map[string]any, bool, error) {
	text, truncated, err := Repair(raw)
	if err != nil {
		return nil, false, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, truncated, &RepairError{Truncated: truncated, Err: err}
	}
	if obj == nil {
		return nil, truncated, &RepairError{Truncated: truncated, Err: ErrNoJSON}
	}
	return obj, truncated, nil
}
