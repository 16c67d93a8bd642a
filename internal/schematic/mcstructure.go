package schematic

import (
	"fmt"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic/nbtx"
)

// decodeMcstructure handles Bedrock structure exports (.mcstructure):
// little-endian NBT with a flat index layer per block and a shared palette
// under structure.palette.default.block_palette. Only the primary layer is
// consumed; the secondary (waterlogging) layer is ignored.
func decodeMcstructure(root nbtx.Node) (*Schematic, error) {
	structure, ok := root.Compound("structure")
	if !ok {
		return nil, fmt.Errorf("mcstructure: missing structure compound")
	}

	var sx, sy, sz int
	if size, ok := root.Ints("size"); ok && len(size) >= 3 {
		sx, sy, sz = size[0], size[1], size[2]
	}
	if sx < 0 {
		sx = 0
	}
	if sy < 0 {
		sy = 0
	}
	if sz < 0 {
		sz = 0
	}

	var primary []int
	if layers, ok := structure.List("block_indices"); ok && len(layers) > 0 {
		primary, _ = layers[0].AsIntSlice()
	}

	pb := newPaletteBuilder()
	var globals []int
	if pal, ok := structure.Compound("palette"); ok {
		if def, ok := pal.Compound("default"); ok {
			if entries, ok := def.List("block_palette"); ok {
				globals = make([]int, len(entries))
				for i, entry := range entries {
					name, ok := entry.String("name")
					if !ok {
						globals[i] = -1
						continue
					}
					var props map[string]string
					if states, ok := entry.Compound("states"); ok {
						sm, _ := states.Map()
						for k, v := range sm {
							if s, ok := nbtx.Wrap(v).AsText(); ok {
								if props == nil {
									props = make(map[string]string)
								}
								props[k] = s
							}
						}
					}
					globals[i] = pb.add(normalizeBlockName(name), props)
				}
			}
		}
	}
	if len(globals) == 0 {
		// Palette-less export: a single air entry keeps index resolution
		// well-defined while emitting nothing.
		globals = []int{pb.add("minecraft:air", nil)}
	}

	var blocks []Block
	i := 0
decode:
	for y := 0; y < sy; y++ {
		for z := 0; z < sz; z++ {
			for x := 0; x < sx; x++ {
				if i >= len(primary) {
					break decode
				}
				v := primary[i]
				i++
				if v < 0 || v >= len(globals) {
					// Structure void, or an index outside the palette.
					continue
				}
				g := globals[v]
				if g < 0 {
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
