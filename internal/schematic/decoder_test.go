package schematic

import (
	"fmt"
	"testing"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic/nbtx"
)

// blockSet renders the block list as "x,y,z:name" keys for order-free
// comparison against expectations.
func blockSet(t *testing.T, s *Schematic) map[string]struct{} {
	t.Helper()
	out := make(map[string]struct{}, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.PaletteIndex < 0 || b.PaletteIndex >= len(s.Palette) {
			t.Fatalf("block %+v has palette index outside palette of %d", b, len(s.Palette))
		}
		out[fmt.Sprintf("%d,%d,%d:%s", b.X, b.Y, b.Z, s.Palette[b.PaletteIndex].Name)] = struct{}{}
	}
	return out
}

func wantBlocks(t *testing.T, s *Schematic, want ...string) {
	t.Helper()
	got := blockSet(t, s)
	if len(got) != len(want) {
		t.Fatalf("got %d blocks %v, want %d %v", len(got), got, len(want), want)
	}
	for _, w := range want {
		if _, ok := got[w]; !ok {
			t.Fatalf("missing block %q in %v", w, got)
		}
	}
	if s.BlockCount != len(s.Blocks) {
		t.Fatalf("BlockCount %d != len(Blocks) %d", s.BlockCount, len(s.Blocks))
	}
}

func TestDecodeSponge_Basic(t *testing.T) {
	// 2x1x2, checkerboard of stone and air.
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(2),
		"Height": int16(1),
		"Length": int16(2),
		"Palette": map[string]any{
			"minecraft:air":   int32(0),
			"minecraft:stone": int32(1),
		},
		"BlockData": []byte{1, 0, 0, 1},
	})

	s, err := decodeSponge(root)
	if err != nil {
		t.Fatalf("decodeSponge: %v", err)
	}
	if s.SizeX != 2 || s.SizeY != 1 || s.SizeZ != 2 {
		t.Fatalf("dimensions: %d,%d,%d", s.SizeX, s.SizeY, s.SizeZ)
	}
	// Iteration order is Y outer, Z middle, X inner.
	wantBlocks(t, s, "0,0,0:minecraft:stone", "1,0,1:minecraft:stone")
}

func TestDecodeSponge_NestedSchematicCompound(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Schematic": map[string]any{
			"Width":  int16(1),
			"Height": int16(1),
			"Length": int16(1),
			"Palette": map[string]any{
				"minecraft:glass": int32(0),
			},
			"BlockData": []byte{0},
		},
	})
	s, err := decodeSponge(root)
	if err != nil {
		t.Fatalf("decodeSponge: %v", err)
	}
	wantBlocks(t, s, "0,0,0:minecraft:glass")
}

func TestDecodeSponge_BlockStateProperties(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(1),
		"Height": int16(1),
		"Length": int16(1),
		"Palette": map[string]any{
			"minecraft:oak_log[axis=z]": int32(0),
		},
		"BlockData": []byte{0},
	})
	s, err := decodeSponge(root)
	if err != nil {
		t.Fatalf("decodeSponge: %v", err)
	}
	if len(s.Palette) != 1 || s.Palette[0].Properties["axis"] != "z" {
		t.Fatalf("palette: %+v", s.Palette)
	}
}

func TestDecodeSponge_PaletteFollowsLocalIndexOrder(t *testing.T) {
	// Compound iteration order is random, so the global palette must be
	// built in local-index order to stay identical across decodes.
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(5),
		"Height": int16(1),
		"Length": int16(1),
		"Palette": map[string]any{
			"minecraft:clay":  int32(4),
			"minecraft:stone": int32(0),
			"minecraft:sand":  int32(3),
			"minecraft:dirt":  int32(1),
			"minecraft:glass": int32(2),
		},
		"BlockData": []byte{0, 1, 2, 3, 4},
	})

	want := []string{"minecraft:stone", "minecraft:dirt", "minecraft:glass", "minecraft:sand", "minecraft:clay"}
	for run := 0; run < 3; run++ {
		s, err := decodeSponge(root)
		if err != nil {
			t.Fatalf("decodeSponge: %v", err)
		}
		if len(s.Palette) != len(want) {
			t.Fatalf("palette size %d want %d", len(s.Palette), len(want))
		}
		for i, name := range want {
			if s.Palette[i].Name != name {
				t.Fatalf("run %d: palette[%d] = %q want %q", run, i, s.Palette[i].Name, name)
			}
		}
	}
}

func TestDecodeSponge_MissingBlockDataFails(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(1),
		"Height": int16(1),
		"Length": int16(1),
	})
	if _, err := decodeSponge(root); err == nil {
		t.Fatalf("missing BlockData must fail")
	}
}

func TestDecodeSponge_DefaultPaletteFallback(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":     int16(2),
		"Height":    int16(1),
		"Length":    int16(1),
		"BlockData": []byte{1, 0},
	})
	s, err := decodeSponge(root)
	if err != nil {
		t.Fatalf("decodeSponge: %v", err)
	}
	// Synthesized palette: 0 = air, 1 = stone.
	wantBlocks(t, s, "0,0,0:minecraft:stone")
}

func TestDecodeSponge_TruncatedBlockData(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(2),
		"Height": int16(2),
		"Length": int16(2),
		"Palette": map[string]any{
			"minecraft:stone": int32(0),
		},
		"BlockData": []byte{0, 0, 0}, // 3 of 8 declared blocks
	})
	s, err := decodeSponge(root)
	if err != nil {
		t.Fatalf("truncated data must not fail: %v", err)
	}
	if s.BlockCount != 3 {
		t.Fatalf("got %d blocks want 3", s.BlockCount)
	}
}

func TestDecodeLegacy_Basic(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(2),
		"Height": int16(1),
		"Length": int16(1),
		"Blocks": []byte{1, 0}, // stone, air
		"Data":   []byte{0, 0},
	})
	s, err := decodeLegacy(root)
	if err != nil {
		t.Fatalf("decodeLegacy: %v", err)
	}
	wantBlocks(t, s, "0,0,0:minecraft:stone")
	// Palette is the distinct IDs present, ascending: air then stone.
	if len(s.Palette) != 2 || s.Palette[0].Name != "minecraft:air" || s.Palette[1].Name != "minecraft:stone" {
		t.Fatalf("palette: %+v", s.Palette)
	}
}

func TestDecodeLegacy_UnknownID(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(1),
		"Height": int16(1),
		"Length": int16(1),
		"Blocks": []byte{250},
	})
	s, err := decodeLegacy(root)
	if err != nil {
		t.Fatalf("decodeLegacy: %v", err)
	}
	wantBlocks(t, s, "0,0,0:minecraft:unknown_250")
}

func TestDecodeLegacy_MissingBlocksFails(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Width":  int16(1),
		"Height": int16(1),
		"Length": int16(1),
	})
	if _, err := decodeLegacy(root); err == nil {
		t.Fatalf("missing Blocks must fail")
	}
}

func litematicRegion(px, py, pz, sx, sy, sz int, palette []map[string]any, longs []int64) map[string]any {
	return map[string]any{
		"Position": map[string]any{"x": int32(px), "y": int32(py), "z": int32(pz)},
		"Size":     map[string]any{"x": int32(sx), "y": int32(sy), "z": int32(sz)},
		"BlockStatePalette": func() []any {
			out := make([]any, len(palette))
			for i, p := range palette {
				out[i] = p
			}
			return out
		}(),
		"BlockStates": longs,
	}
}

func TestDecodeLitematica_MultiRegionNormalization(t *testing.T) {
	// Region "a": one stone block at world (-1, 0, 0). Region "b": one glass
	// block at world (2, 3, 4). Bounding box spans (-1,0,0)..(3,4,5).
	root := nbtx.Wrap(map[string]any{
		"Regions": map[string]any{
			"a": litematicRegion(-1, 0, 0, 1, 1, 1,
				[]map[string]any{{"Name": "minecraft:stone"}}, []int64{0}),
			"b": litematicRegion(2, 3, 4, 1, 1, 1,
				[]map[string]any{{"Name": "minecraft:glass"}}, []int64{0}),
		},
	})

	s, err := decodeLitematica(root)
	if err != nil {
		t.Fatalf("decodeLitematica: %v", err)
	}
	if s.SizeX != 4 || s.SizeY != 4 || s.SizeZ != 5 {
		t.Fatalf("dimensions: %d,%d,%d", s.SizeX, s.SizeY, s.SizeZ)
	}
	wantBlocks(t, s, "0,0,0:minecraft:stone", "3,3,4:minecraft:glass")
	for _, b := range s.Blocks {
		if b.X < 0 || b.Y < 0 || b.Z < 0 || b.X >= s.SizeX || b.Y >= s.SizeY || b.Z >= s.SizeZ {
			t.Fatalf("block %+v outside normalized dimensions", b)
		}
	}
}

func TestDecodeLitematica_AirSuppressionAndPackedStates(t *testing.T) {
	// 2x1x2 region, palette [air, stone], 2-bit fields: stone, air, air, stone.
	longs := []int64{1 | 0<<2 | 0<<4 | 1<<6}
	root := nbtx.Wrap(map[string]any{
		"Regions": map[string]any{
			"main": litematicRegion(0, 0, 0, 2, 1, 2,
				[]map[string]any{{"Name": "minecraft:air"}, {"Name": "minecraft:stone"}}, longs),
		},
	})

	s, err := decodeLitematica(root)
	if err != nil {
		t.Fatalf("decodeLitematica: %v", err)
	}
	wantBlocks(t, s, "0,0,0:minecraft:stone", "1,0,1:minecraft:stone")
}

func TestDecodeLitematica_NegativeSizeUsesAbsoluteValue(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Regions": map[string]any{
			"main": litematicRegion(0, 0, 0, -2, 1, 1,
				[]map[string]any{{"Name": "minecraft:stone"}}, []int64{0}),
		},
	})
	s, err := decodeLitematica(root)
	if err != nil {
		t.Fatalf("decodeLitematica: %v", err)
	}
	if s.SizeX != 2 || s.BlockCount != 2 {
		t.Fatalf("got size %d count %d", s.SizeX, s.BlockCount)
	}
}

func TestDecodeLitematica_PropertiesReachPalette(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Regions": map[string]any{
			"main": litematicRegion(0, 0, 0, 1, 1, 1,
				[]map[string]any{{
					"Name":       "minecraft:observer",
					"Properties": map[string]any{"facing": "up"},
				}}, []int64{0}),
		},
	})
	s, err := decodeLitematica(root)
	if err != nil {
		t.Fatalf("decodeLitematica: %v", err)
	}
	if len(s.Palette) != 1 || s.Palette[0].Properties["facing"] != "up" {
		t.Fatalf("palette: %+v", s.Palette)
	}
}

func TestDecodeLitematica_ShortBlockStatesTerminates(t *testing.T) {
	// 5x5x5 region needs 250 bits at 2 bits per entry, but only one long is
	// provided. Decoding must stop at the exhausted array, emitting only the
	// 32 fields the word covers.
	root := nbtx.Wrap(map[string]any{
		"Regions": map[string]any{
			"main": litematicRegion(0, 0, 0, 5, 5, 5,
				[]map[string]any{{"Name": "minecraft:stone"}, {"Name": "minecraft:dirt"}}, []int64{0}),
		},
	})
	s, err := decodeLitematica(root)
	if err != nil {
		t.Fatalf("short BlockStates must not fail: %v", err)
	}
	if s.BlockCount != 32 {
		t.Fatalf("got %d blocks want 32", s.BlockCount)
	}
	for _, b := range s.Blocks {
		if b.X >= 5 || b.Y >= 5 || b.Z >= 5 {
			t.Fatalf("out-of-range block %+v", b)
		}
	}
}

func TestDecodeLitematica_MissingRegionsFails(t *testing.T) {
	if _, err := decodeLitematica(nbtx.Wrap(map[string]any{})); err == nil {
		t.Fatalf("missing Regions must fail")
	}
}

func TestDecodeLitematica_ZeroSizeRegionSkipped(t *testing.T) {
	root := nbtx.Wrap(map[string]any{
		"Regions": map[string]any{
			"empty": litematicRegion(0, 0, 0, 0, 1, 1, nil, nil),
		},
	})
	s, err := decodeLitematica(root)
	if err != nil {
		t.Fatalf("decodeLitematica: %v", err)
	}
	if s.SizeX != 0 || s.SizeY != 0 || s.SizeZ != 0 || s.BlockCount != 0 {
		t.Fatalf("zero-size region must leave an empty result: %+v", s)
	}
}

func mcstructureRoot(size []int32, primary []int32, palette []any) nbtx.Node {
	layers := []any{primary, []int32{}}
	return nbtx.Wrap(map[string]any{
		"size": size,
		"structure": map[string]any{
			"block_indices": layers,
			"palette": map[string]any{
				"default": map[string]any{
					"block_palette": palette,
				},
			},
		},
	})
}

func TestDecodeMcstructure_Basic(t *testing.T) {
	root := mcstructureRoot(
		[]int32{2, 1, 1},
		[]int32{1, 0},
		[]any{
			map[string]any{"name": "minecraft:air"},
			map[string]any{"name": "minecraft:stone"},
		},
	)
	s, err := decodeMcstructure(root)
	if err != nil {
		t.Fatalf("decodeMcstructure: %v", err)
	}
	if s.SizeX != 2 || s.SizeY != 1 || s.SizeZ != 1 {
		t.Fatalf("dimensions: %d,%d,%d", s.SizeX, s.SizeY, s.SizeZ)
	}
	wantBlocks(t, s, "0,0,0:minecraft:stone")
}

func TestDecodeMcstructure_VoidAndOutOfRangeIndices(t *testing.T) {
	root := mcstructureRoot(
		[]int32{3, 1, 1},
		[]int32{-1, 0, 9},
		[]any{map[string]any{"name": "minecraft:dirt"}},
	)
	s, err := decodeMcstructure(root)
	if err != nil {
		t.Fatalf("decodeMcstructure: %v", err)
	}
	wantBlocks(t, s, "1,0,0:minecraft:dirt")
}

func TestDecodeMcstructure_StatesCoerceToStrings(t *testing.T) {
	root := mcstructureRoot(
		[]int32{1, 1, 1},
		[]int32{0},
		[]any{map[string]any{
			"name": "minecraft:lever",
			"states": map[string]any{
				"open_bit":  byte(1),
				"direction": int32(3),
				"facing":    "north",
			},
		}},
	)
	s, err := decodeMcstructure(root)
	if err != nil {
		t.Fatalf("decodeMcstructure: %v", err)
	}
	p := s.Palette[0].Properties
	if p["open_bit"] != "1" || p["direction"] != "3" || p["facing"] != "north" {
		t.Fatalf("states: %v", p)
	}
}

func TestDecodeMcstructure_EmptyPaletteSynthesizesAir(t *testing.T) {
	root := mcstructureRoot([]int32{1, 1, 1}, []int32{0}, nil)
	s, err := decodeMcstructure(root)
	if err != nil {
		t.Fatalf("decodeMcstructure: %v", err)
	}
	if s.BlockCount != 0 {
		t.Fatalf("air-only palette must emit nothing, got %d", s.BlockCount)
	}
	if len(s.Palette) != 1 || s.Palette[0].Name != "minecraft:air" {
		t.Fatalf("palette: %+v", s.Palette)
	}
}

func TestDecodeMcstructure_MissingStructureFails(t *testing.T) {
	if _, err := decodeMcstructure(nbtx.Wrap(map[string]any{"size": []int32{1, 1, 1}})); err == nil {
		t.Fatalf("missing structure compound must fail")
	}
}
