package schematic

import (
	"fmt"
	"sort"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic/nbtx"
)

// decodeLitematica handles Litematica containers (.litematic): any number of
// named regions, each with its own offset, palette and packed block-state
// array. Regions are merged into one coordinate space, then the whole result
// is shifted so the minimum corner lands at the origin.
func decodeLitematica(root nbtx.Node) (*Schematic, error) {
	regions, ok := root.Compound("Regions")
	if !ok {
		return nil, fmt.Errorf("litematic: missing Regions compound")
	}
	m, _ := regions.Map()

	// Region order inside a compound is not meaningful; iterate by name so
	// the global palette order is deterministic.
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	pb := newPaletteBuilder()
	var blocks []Block

	minX, minY, minZ := 0, 0, 0
	maxX, maxY, maxZ := 0, 0, 0
	contributed := false

	for _, name := range names {
		region := nbtx.Wrap(m[name])

		pos, _ := region.Compound("Position")
		px, _ := pos.Int("x")
		py, _ := pos.Int("y")
		pz, _ := pos.Int("z")

		size, _ := region.Compound("Size")
		rsx, _ := size.Int("x")
		rsy, _ := size.Int("y")
		rsz, _ := size.Int("z")
		// A negative size encodes a mirrored scan direction; the volume is
		// its absolute value.
		sx, sy, sz := abs(rsx), abs(rsy), abs(rsz)
		if sx == 0 || sy == 0 || sz == 0 {
			continue
		}

		if !contributed {
			minX, minY, minZ = px, py, pz
			maxX, maxY, maxZ = px+sx, py+sy, pz+sz
			contributed = true
		} else {
			minX, minY, minZ = min(minX, px), min(minY, py), min(minZ, pz)
			maxX, maxY, maxZ = max(maxX, px+sx), max(maxY, py+sy), max(maxZ, pz+sz)
		}

		palList, _ := region.List("BlockStatePalette")
		localToGlobal := make([]int, len(palList))
		for i, entry := range palList {
			entryName, ok := entry.String("Name")
			if !ok {
				localToGlobal[i] = -1
				continue
			}
			var props map[string]string
			if pc, ok := entry.Compound("Properties"); ok {
				pm, _ := pc.Map()
				for k, v := range pm {
					if s, ok := nbtx.Wrap(v).AsText(); ok {
						if props == nil {
							props = make(map[string]string)
						}
						props[k] = s
					}
				}
			}
			localToGlobal[i] = pb.add(normalizeBlockName(entryName), props)
		}

		longs, _ := region.LongArray("BlockStates")
		pr := newPackedReader(longs, len(palList))

		i := 0
	region:
		for y := 0; y < sy; y++ {
			for z := 0; z < sz; z++ {
				for x := 0; x < sx; x++ {
					v, ok := pr.get(i)
					i++
					if !ok {
						break region
					}
					if v >= len(localToGlobal) {
						continue
					}
					g := localToGlobal[v]
					if g < 0 {
						continue
					}
					if isAir(pb.name(g)) {
						continue
					}
					blocks = append(blocks, Block{X: px + x, Y: py + y, Z: pz + z, PaletteIndex: g})
				}
			}
		}
	}

	if !contributed {
		return &Schematic{Palette: pb.entries, BlockCount: 0}, nil
	}

	for i := range blocks {
		blocks[i].X -= minX
		blocks[i].Y -= minY
		blocks[i].Z -= minZ
	}

	return &Schematic{
		SizeX:      maxX - minX,
		SizeY:      maxY - minY,
		SizeZ:      maxZ - minZ,
		Palette:    pb.entries,
		Blocks:     blocks,
		BlockCount: len(blocks),
	}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
