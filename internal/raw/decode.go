package raw

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// FromJSON decodes a JSON document into a Value, keeping object key order.
func FromJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, fmt.Errorf("decoding JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("decoding JSON: trailing data after document")
	}
	return v, nil
}

// FromJSONBytes is FromJSON over an in-memory document.
func FromJSONBytes(data []byte) (Value, error) {
	return FromJSON(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		return NewNumber(t.String()), nil
	case string:
		return NewString(t), nil
	case json.Delim:
		switch t {
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return m, nil
		case '[':
			var items []Value
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return NewSequence(items...), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// FromForm decodes an application/x-www-form-urlencoded body that uses
// bracketed field names (scores_table[front][score][1]=4) into nested mappings.
// Empty brackets append to a sequence-like mapping with the next free index.
func FromForm(body string) (Value, error) {
	pairs, err := splitForm(body)
	if err != nil {
		return Value{}, fmt.Errorf("decoding form body: %w", err)
	}

	root := newFormNode()
	for _, p := range pairs {
		root.insert(parseFormKey(p[0]), p[1])
	}
	return root.value(), nil
}

// splitForm keeps the original pair order, which url.ParseQuery does not.
func splitForm(body string) ([][2]string, error) {
	var out [][2]string
	for _, part := range strings.Split(body, "&") {
		if part == "" {
			continue
		}
		key, val, _ := strings.Cut(part, "=")
		k, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		v, err := url.QueryUnescape(val)
		if err != nil {
			return nil, err
		}
		out = append(out, [2]string{k, v})
	}
	return out, nil
}

func parseFormKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}
	parts := []string{key[:open]}
	rest := key[open:]
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		parts = append(parts, rest[1:end])
		rest = rest[end+1:]
	}
	return parts
}

type formNode struct {
	keys     []string
	children map[string]*formNode
	leaf     *string
	next     int
}

func newFormNode() *formNode {
	return &formNode{children: make(map[string]*formNode)}
}

func (n *formNode) insert(path []string, val string) {
	key := path[0]
	if key == "" {
		key = strconv.Itoa(n.next)
	}
	if i, err := strconv.Atoi(key); err == nil && i >= n.next {
		n.next = i + 1
	}

	child, ok := n.children[key]
	if !ok {
		child = newFormNode()
		n.children[key] = child
		n.keys = append(n.keys, key)
	}
	if len(path) == 1 {
		v := val
		child.leaf = &v
		child.keys = nil
		child.children = make(map[string]*formNode)
		child.next = 0
		return
	}
	child.leaf = nil
	child.insert(path[1:], val)
}

func (n *formNode) value() Value {
	if n.leaf != nil {
		return NewString(*n.leaf)
	}
	m := NewMapping()
	for _, k := range n.keys {
		m.set(k, n.children[k].value())
	}
	return m
}

// FromAny converts decoded Go values (the shapes produced by encoding/json or
// handwritten literals) into a Value. Go maps have no order, so their keys are
// sorted, numerically when every key is an integer.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return NewNull()
	case Value:
		return t
	case bool:
		return NewBool(t)
	case int:
		return NewInt(t)
	case int64:
		return NewNumber(strconv.FormatInt(t, 10))
	case float64:
		return NewNumber(strconv.FormatFloat(t, 'f', -1, 64))
	case json.Number:
		return NewNumber(t.String())
	case string:
		return NewString(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return NewSequence(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = NewString(item)
		}
		return NewSequence(items...)
	case map[string]any:
		m := NewMapping()
		for _, k := range sortedKeys(t) {
			m.set(k, FromAny(t[k]))
		}
		return m
	case map[int]any:
		m := NewMapping()
		keys := make([]int, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			m.set(strconv.Itoa(k), FromAny(t[k]))
		}
		return m
	case map[string]string:
		m := NewMapping()
		for _, k := range sortedKeys(t) {
			m.set(k, NewString(t[k]))
		}
		return m
	}
	return NewString(fmt.Sprint(x))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	allInts := true
	for k := range m {
		keys = append(keys, k)
		if _, err := strconv.Atoi(k); err != nil {
			allInts = false
		}
	}
	if allInts {
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
	} else {
		sort.Strings(keys)
	}
	return keys
}
