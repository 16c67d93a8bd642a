package schematic

import (
	"fmt"
	"sort"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic/nbtx"
)

// decodeLegacy handles the classic .schematic layout: one numeric block ID
// per position in a flat Blocks byte array. The parallel Data array (block
// metadata) is read but not used for block differentiation, so metadata
// variants such as wood types collapse to the base block name.
func decodeLegacy(root nbtx.Node) (*Schematic, error) {
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

	ids, ok := eff.ByteArray("Blocks")
	if !ok {
		return nil, fmt.Errorf("legacy schematic: missing Blocks array")
	}
	_, _ = eff.ByteArray("Data") // metadata variants are intentionally dropped

	// Palette = the distinct IDs actually present, ascending.
	seen := make(map[int]struct{})
	for _, id := range ids {
		seen[int(id)] = struct{}{}
	}
	distinct := make([]int, 0, len(seen))
	for id := range seen {
		distinct = append(distinct, id)
	}
	sort.Ints(distinct)

	pb := newPaletteBuilder()
	byID := make(map[int]int, len(distinct))
	for _, id := range distinct {
		byID[id] = pb.add(legacyBlockName(id), nil)
	}

	var blocks []Block
	i := 0
decode:
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				if i >= len(ids) {
					break decode
				}
				g := byID[int(ids[i])]
				i++
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
