package biom

import (
	"encoding/json"
	"fmt"
)

// MalformedTextError reports BIOM text whose structure could not be located
// without a full parse.
type MalformedTextError struct {
	Field   string
	Offset  int
	Message string
}

func (e *MalformedTextError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Malformed BIOM text at byte %d: %s", e.Offset, e.Message)
	}

	return fmt.Sprintf("Malformed BIOM text in %q at byte %d: %s", e.Field, e.Offset, e.Message)
}

type blockKind byte

const (
	blockOther blockKind = iota
	blockRows
	blockColumns
	blockData
	blockShape
)

func kindOf(key string) blockKind {
	switch key {
	case "rows":
		return blockRows
	case "columns":
		return blockColumns
	case "data":
		return blockData
	case "shape":
		return blockShape
	}

	return blockOther
}

type scanState byte

const (
	stateSeekKey scanState = iota
	stateInKey
	stateSeekColon
	stateSeekValue
	stateInValue
	stateDone
)

// span is a half-open byte range [start, end) of the text.
type span struct {
	start, end int
}

// member is one top-level "key": value pair. key holds the raw key bytes,
// quotes included.
type member struct {
	name  string
	kind  blockKind
	key   span
	value span
}

// tracker follows JSON string and nesting state one byte at a time.
type tracker struct {
	depth    int
	inString bool
	escaped  bool
}

// step consumes b and reports whether it was structural, i.e. outside of a
// string literal.
func (t *tracker) step(b byte) bool {
	if t.inString {
		switch {
		case t.escaped:
			t.escaped = false
		case b == '\\':
			t.escaped = true
		case b == '"':
			t.inString = false
		}
		return false
	}

	switch b {
	case '"':
		t.inString = true
		return false
	case '[', '{':
		t.depth++
	case ']', '}':
		t.depth--
	}

	return true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// trimSpan drops surrounding whitespace from s.
func trimSpan(text []byte, s span) span {
	for s.start < s.end && isSpace(text[s.start]) {
		s.start++
	}
	for s.end > s.start && isSpace(text[s.end-1]) {
		s.end--
	}

	return s
}

// scanMembers walks the top-level object of a BIOM document once and returns
// the location of each member. Nested values are skipped by depth only.
func scanMembers(text []byte) ([]member, error) {
	i := 0
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	if i == len(text) || text[i] != '{' {
		return nil, &MalformedTextError{Offset: i, Message: "expected '{' at the start of the document"}
	}
	i++

	var (
		members []member
		current member
		trk     tracker
		state   = stateSeekKey
	)

	for ; i < len(text) && state != stateDone; i++ {
		b := text[i]

		switch state {
		case stateSeekKey:
			switch {
			case isSpace(b) || (b == ',' && len(members) > 0):
			case b == '}':
				state = stateDone
			case b == '"':
				current = member{key: span{start: i}}
				trk = tracker{inString: true}
				state = stateInKey
			default:
				return nil, &MalformedTextError{Offset: i, Message: fmt.Sprintf("unexpected %q while looking for a key", b)}
			}

		case stateInKey:
			trk.step(b)
			if !trk.inString {
				current.key.end = i + 1
				if err := json.Unmarshal(text[current.key.start:current.key.end], &current.name); err != nil {
					return nil, &MalformedTextError{Offset: current.key.start, Message: err.Error()}
				}
				current.kind = kindOf(current.name)
				state = stateSeekColon
			}

		case stateSeekColon:
			switch {
			case isSpace(b):
			case b == ':':
				state = stateSeekValue
			default:
				return nil, &MalformedTextError{Field: current.name, Offset: i, Message: "expected ':'"}
			}

		case stateSeekValue:
			if isSpace(b) {
				continue
			}
			current.value.start = i
			trk = tracker{}
			state = stateInValue
			// The first byte of the value is consumed by the next case.
			i--

		case stateInValue:
			structural := trk.step(b)
			if !structural {
				continue
			}
			if trk.depth < 0 || (b == ',' && trk.depth == 0) {
				current.value.end = i
				current.value = trimSpan(text, current.value)
				if current.value.start == current.value.end {
					return nil, &MalformedTextError{Field: current.name, Offset: i, Message: "missing value"}
				}
				members = append(members, current)
				state = stateSeekKey
				if trk.depth < 0 {
					if b != '}' {
						return nil, &MalformedTextError{Field: current.name, Offset: i, Message: "unbalanced brackets"}
					}
					state = stateDone
				}
			}
		}
	}

	if state != stateDone {
		return nil, &MalformedTextError{Field: current.name, Offset: len(text), Message: "unexpected end of text"}
	}

	return members, nil
}

// findMember returns the first member of the given kind.
func findMember(members []member, kind blockKind) (member, bool) {
	for _, m := range members {
		if m.kind == kind {
			return m, true
		}
	}

	return member{}, false
}

// arrayCursor yields the top-level elements of a JSON array one at a time.
type arrayCursor struct {
	text  []byte
	field string
	pos   int
	end   int // index of the closing ']'
}

func newArrayCursor(text []byte, field string, value span) (*arrayCursor, error) {
	if value.end-value.start < 2 || text[value.start] != '[' || text[value.end-1] != ']' {
		return nil, &MalformedTextError{Field: field, Offset: value.start, Message: "expected an array"}
	}

	return &arrayCursor{text: text, field: field, pos: value.start + 1, end: value.end - 1}, nil
}

// next returns the span of the following element. ok is false once the
// array is exhausted.
func (c *arrayCursor) next() (elem span, ok bool, err error) {
	for c.pos < c.end && (isSpace(c.text[c.pos]) || c.text[c.pos] == ',') {
		c.pos++
	}
	if c.pos >= c.end {
		return span{}, false, nil
	}

	start := c.pos
	var trk tracker
	for ; c.pos < c.end; c.pos++ {
		if trk.step(c.text[c.pos]) && trk.depth == 0 && c.text[c.pos] == ',' {
			break
		}
		if trk.depth < 0 {
			return span{}, false, &MalformedTextError{Field: c.field, Offset: c.pos, Message: "unbalanced brackets"}
		}
	}
	if trk.depth != 0 || trk.inString {
		return span{}, false, &MalformedTextError{Field: c.field, Offset: start, Message: "unterminated element"}
	}

	return trimSpan(c.text, span{start: start, end: c.pos}), true, nil
}
