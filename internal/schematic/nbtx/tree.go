package nbtx

import (
	"fmt"
	"strconv"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Node is a read-only view over one value of a decoded NBT tree. Lookups are
// defensive: a missing or wrongly typed field reports ok=false instead of
// panicking, because structure exports in the wild are frequently partial.
type Node struct {
	v any
}

// Wrap exposes an already-decoded tree value as a Node.
func Wrap(v any) Node {
	return Node{v: v}
}

// DecodeJava decodes a big-endian (Java edition) NBT payload into a tree.
func DecodeJava(b []byte) (Node, error) {
	return decode(b, nbt.BigEndian)
}

// DecodeBedrock decodes a little-endian (Bedrock edition) NBT payload.
func DecodeBedrock(b []byte) (Node, error) {
	return decode(b, nbt.LittleEndian)
}

func decode(b []byte, enc nbt.Encoding) (Node, error) {
	var m map[string]any
	if err := nbt.UnmarshalEncoding(b, &m, enc); err != nil {
		return Node{}, fmt.Errorf("nbt decode: %w", err)
	}
	return Node{v: m}, nil
}

// Map returns the node's children when the node is a compound.
func (n Node) Map() (map[string]any, bool) {
	m, ok := n.v.(map[string]any)
	return m, ok
}

// Compound returns the named child compound.
func (n Node) Compound(name string) (Node, bool) {
	m, ok := n.Map()
	if !ok {
		return Node{}, false
	}
	c, ok := m[name].(map[string]any)
	if !ok {
		return Node{}, false
	}
	return Node{v: c}, true
}

// List returns the named child list, one Node per element.
func (n Node) List(name string) ([]Node, bool) {
	m, ok := n.Map()
	if !ok {
		return nil, false
	}
	items, ok := asSlice(m[name])
	if !ok {
		return nil, false
	}
	out := make([]Node, len(items))
	for i, v := range items {
		out[i] = Node{v: v}
	}
	return out, true
}

// Int returns the named child coerced from any NBT integer width.
func (n Node) Int(name string) (int, bool) {
	m, ok := n.Map()
	if !ok {
		return 0, false
	}
	return asInt(m[name])
}

// String returns the named child when it is a string.
func (n Node) String(name string) (string, bool) {
	m, ok := n.Map()
	if !ok {
		return "", false
	}
	s, ok := m[name].(string)
	return s, ok
}

// ByteArray returns the named TAG_ByteArray child.
func (n Node) ByteArray(name string) ([]byte, bool) {
	m, ok := n.Map()
	if !ok {
		return nil, false
	}
	b, ok := m[name].([]byte)
	return b, ok
}

// LongArray returns the named TAG_LongArray child.
func (n Node) LongArray(name string) ([]int64, bool) {
	m, ok := n.Map()
	if !ok {
		return nil, false
	}
	l, ok := m[name].([]int64)
	return l, ok
}

// Ints returns the named child as a flat int slice, accepting either an int
// array tag or a list of integer scalars.
func (n Node) Ints(name string) ([]int, bool) {
	m, ok := n.Map()
	if !ok {
		return nil, false
	}
	return asIntSlice(m[name])
}

// AsInt coerces the node itself to an int.
func (n Node) AsInt() (int, bool) {
	return asInt(n.v)
}

// AsString returns the node itself as a string.
func (n Node) AsString() (string, bool) {
	s, ok := n.v.(string)
	return s, ok
}

// AsIntSlice coerces the node itself to a flat int slice.
func (n Node) AsIntSlice() ([]int, bool) {
	return asIntSlice(n.v)
}

// AsText renders a scalar node as its string form; used for Bedrock block
// state values, which mix strings, bytes and ints.
func (n Node) AsText() (string, bool) {
	switch v := n.v.(type) {
	case string:
		return v, true
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		if i, ok := asInt(n.v); ok {
			return strconv.Itoa(i), true
		}
	}
	return "", false
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int32:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = e
		}
		return out, true
	}
	return nil, false
}

func asInt(v any) (int, bool) {
	switch i := v.(type) {
	case byte:
		return int(i), true
	case int8:
		return int(i), true
	case int16:
		return int(i), true
	case int32:
		return int(i), true
	case int64:
		return int(i), true
	case int:
		return i, true
	}
	return 0, false
}

func asIntSlice(v any) ([]int, bool) {
	switch s := v.(type) {
	case []int32:
		out := make([]int, len(s))
		for i, e := range s {
			out[i] = int(e)
		}
		return out, true
	case []int64:
		out := make([]int, len(s))
		for i, e := range s {
			out[i] = int(e)
		}
		return out, true
	case []byte:
		out := make([]int, len(s))
		for i, e := range s {
			out[i] = int(e)
		}
		return out, true
	case []any:
		out := make([]int, len(s))
		for i, e := range s {
			n, ok := asInt(e)
			if !ok {
				return nil, false
			}
			out[i] = n
		}
		return out, true
	}
	return nil, false
}
