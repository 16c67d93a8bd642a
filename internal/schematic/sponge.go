package schematic

import (
	"fmt"
	"sort"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic/nbtx"
)

// decodeSponge handles the modern Sponge schematic layout (.schem): a
// string-keyed Palette compound plus a varint-encoded BlockData stream.
// Newer exports nest everything under a "Schematic" compound, older ones
// keep the fields top-level; the nested form wins when both exist.
func decodeSponge(root nbtx.Node) (*Schematic, error) {
	eff := root
	if nested, ok := root.Compound("Schematic"); ok {
		eff = nested
	}

	sx, _ := eff.Int("Width")
	sy, _ := eff.Int("Height")
	sz, _ := eff.Int("Length")
	if sx < 0 {
		sx = 0
	}
	if sy < 0 {
		sy = 0
	}
	if sz < 0 {
		sz = 0
	}

	pb := newPaletteBuilder()
	local := make(map[int]int)
	if pal, ok := eff.Compound("Palette"); ok {
		m, _ := pal.Map()
		type palEntry struct {
			state string
			idx   int
		}
		entries := make([]palEntry, 0, len(m))
		for state, v := range m {
			idx, ok := nbtx.Wrap(v).AsInt()
			if !ok {
				continue
			}
			entries = append(entries, palEntry{state: state, idx: idx})
		}
		// Compound order is not meaningful; visit entries by their local
		// index so the global palette order is stable across decodes.
		sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
		for _, e := range entries {
			name, props := parseBlockState(e.state)
			local[e.idx] = pb.add(name, props)
		}
	}
	if len(local) == 0 {
		// Explicit fallback for palette-less exports: index 0 is air,
		// index 1 stone. Documented behavior, not silent data loss.
		local[0] = pb.add("minecraft:air", nil)
		local[1] = pb.add("minecraft:stone", nil)
	}

	data, ok := eff.ByteArray("BlockData")
	if !ok {
		return nil, fmt.Errorf("sponge schematic: missing BlockData array")
	}

	var blocks []Block
	off := 0
decode:
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				v, n := readUvarint(data, off)
				if n == 0 {
					break decode
				}
				off += n
				g, ok := local[v]
				if !ok {
					continue
				}
				if isAir(pb.name(g)) {
					continue
				}
				blocks = append(blocks, Block{X: x, Y: y, Z: z, PaletteIndex: g})
			}
		}
	}

	return &Schematic{
		SizeX:      sx,
		SizeY:      sy,
		SizeZ:      sz,
		Palette:    pb.entries,
		Blocks:     blocks,
		BlockCount: len(blocks),
	}, nil
}
