package raw

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies which variant of the union a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Mapping
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a mapping or sequence.
// Sequence entries are keyed by their decimal position.
type Entry struct {
	Key   string
	Value Value
}

// Value is an untyped datum from an external source. The zero Value is Null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // number literal or string contents
	entries []Entry
	index   map[string]int
}

// NewNull returns the null value.
func NewNull() Value { return Value{} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: Bool, boolean: b} }

// NewNumber wraps a number literal such as "4" or "4.5".
func NewNumber(literal string) Value { return Value{kind: Number, text: literal} }

// NewInt wraps an integer.
func NewInt(n int) Value { return NewNumber(strconv.Itoa(n)) }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: String, text: s} }

// NewMapping builds an ordered mapping. A repeated key replaces the earlier
// value in place, keeping the original position.
func NewMapping(entries ...Entry) Value {
	v := Value{kind: Mapping, index: make(map[string]int, len(entries))}
	for _, e := range entries {
		v.set(e.Key, e.Value)
	}
	return v
}

// NewSequence builds a sequence from the given items.
func NewSequence(items ...Value) Value {
	v := Value{kind: Sequence, entries: make([]Entry, 0, len(items))}
	for i, item := range items {
		v.entries = append(v.entries, Entry{Key: strconv.Itoa(i), Value: item})
	}
	return v
}

// E is shorthand for building mapping entries.
func E(key string, value Value) Entry { return Entry{Key: key, Value: value} }

func (v *Value) set(key string, value Value) {
	if i, ok := v.index[key]; ok {
		v.entries[i].Value = value
		return
	}
	v.index[key] = len(v.entries)
	v.entries = append(v.entries, Entry{Key: key, Value: value})
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// IsMapping reports whether v is a mapping.
func (v Value) IsMapping() bool { return v.kind == Mapping }

// IsContainer reports whether v is a mapping or a sequence.
func (v Value) IsContainer() bool { return v.kind == Mapping || v.kind == Sequence }

// Bool returns the boolean held by v and whether v is a Bool.
func (v Value) Bool() (bool, bool) { return v.boolean, v.kind == Bool }

// Get looks up a key in a mapping. Sequences are indexed by decimal position.
func (v Value) Get(key string) (Value, bool) {
	switch v.kind {
	case Mapping:
		i, ok := v.index[key]
		if !ok {
			return Value{}, false
		}
		return v.entries[i].Value, true
	case Sequence:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(v.entries) {
			return Value{}, false
		}
		return v.entries[i].Value, true
	}
	return Value{}, false
}

// Path follows a chain of keys.
func (v Value) Path(keys ...string) (Value, bool) {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Entries returns the children of a container in insertion order.
// Scalars have no entries.
func (v Value) Entries() []Entry {
	if !v.IsContainer() {
		return nil
	}
	out := make([]Entry, len(v.entries))
	copy(out, v.entries)
	return out
}

// Len returns the number of children of a container.
func (v Value) Len() int { return len(v.entries) }

// Text renders a scalar the way a loosely typed form handler would cast it to a
// string: null and false become "", true becomes "1", numbers keep their literal.
// Containers render as "".
func (v Value) Text() string {
	switch v.kind {
	case Bool:
		if v.boolean {
			return "1"
		}
		return ""
	case Number, String:
		return v.text
	}
	return ""
}

var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// IsNumeric reports whether s looks like a decimal number once surrounding
// whitespace is removed.
func IsNumeric(s string) bool {
	return numericPattern.MatchString(strings.TrimSpace(s))
}

// Truncate parses a numeric-looking string and truncates it toward zero.
// Values that do not fit in an int are rejected.
func Truncate(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !numericPattern.MatchString(s) {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < math.MinInt || f >= math.MaxInt {
		return 0, false
	}
	return int(f), true
}

// LeadingInt casts s the way a loosely typed form handler does: a numeric
// string is truncated, otherwise the leading run of digits counts ("3abc" is
// 3). It reports false when there are no leading digits or the number does
// not fit in an int.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if IsNumeric(s) {
		return Truncate(s)
	}

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	return Truncate(s[:end])
}
