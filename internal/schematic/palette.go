package schematic

import (
	"sort"
	"strings"
)

// paletteBuilder accumulates the deduplicated global palette for one parse.
// Entries keep first-seen order; duplicates (same name and property set,
// regardless of property order) collapse to the existing index.
type paletteBuilder struct {
	entries []PaletteEntry
	index   map[string]int
}

func newPaletteBuilder() *paletteBuilder {
	return &paletteBuilder{index: make(map[string]int)}
}

// add returns the global index for the given block type, appending a new
// entry on first sight.
func (b *paletteBuilder) add(name string, props map[string]string) int {
	key := paletteKey(name, props)
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.entries)
	b.entries = append(b.entries, PaletteEntry{Name: name, Properties: props})
	b.index[key] = i
	return i
}

func (b *paletteBuilder) name(i int) string {
	return b.entries[i].Name
}

// normalizeBlockName prefixes the default namespace when the identifier
// carries none, so "stone" and "minecraft:stone" are the same type.
func normalizeBlockName(name string) string {
	if !strings.Contains(name, ":") {
		return "minecraft:" + name
	}
	return name
}

// paletteKey is the canonical dedup key: name plus properties sorted by key.
func paletteKey(name string, props map[string]string) string {
	if len(props) == 0 {
		return name
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(props[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

// parseBlockState splits a Sponge palette key of the form
// "minecraft:oak_log[axis=y]" into name and properties. A key without a '['
// is a bare name.
func parseBlockState(state string) (string, map[string]string) {
	open := strings.IndexByte(state, '[')
	if open < 0 {
		return normalizeBlockName(state), nil
	}
	name := normalizeBlockName(state[:open])

	body := state[open+1:]
	if i := strings.IndexByte(body, ']'); i >= 0 {
		body = body[:i]
	}
	if body == "" {
		return name, nil
	}
	props := make(map[string]string)
	for _, pair := range strings.Split(body, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if len(props) == 0 {
		return name, nil
	}
	return name, props
}
