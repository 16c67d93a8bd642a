// Package render holds the value objects the gallery preview is built from:
// a block-name color table and a top-down projection of a decoded schematic.
// It performs no I/O and draws nothing itself.
package render

import (
	"fmt"
	"hash/fnv"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
)

// Color is an opaque RGB value.
type Color struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var blockColors = map[string]Color{
	"minecraft:stone":              {125, 125, 125},
	"minecraft:granite":            {149, 103, 85},
	"minecraft:dirt":               {134, 96, 67},
	"minecraft:grass_block":        {94, 157, 52},
	"minecraft:cobblestone":        {117, 117, 117},
	"minecraft:oak_planks":         {157, 128, 79},
	"minecraft:spruce_planks":      {104, 78, 47},
	"minecraft:birch_planks":       {196, 179, 123},
	"minecraft:oak_log":            {102, 81, 50},
	"minecraft:oak_leaves":         {60, 110, 30},
	"minecraft:sand":               {219, 211, 160},
	"minecraft:gravel":             {126, 124, 122},
	"minecraft:water":              {52, 95, 218},
	"minecraft:lava":               {207, 91, 19},
	"minecraft:glass":              {199, 228, 232},
	"minecraft:bricks":             {146, 80, 68},
	"minecraft:bookshelf":          {157, 128, 79},
	"minecraft:mossy_cobblestone":  {110, 118, 94},
	"minecraft:obsidian":           {20, 18, 30},
	"minecraft:snow_block":         {240, 246, 246},
	"minecraft:ice":                {145, 183, 253},
	"minecraft:clay":               {159, 164, 177},
	"minecraft:pumpkin":            {192, 118, 21},
	"minecraft:netherrack":         {111, 54, 52},
	"minecraft:glowstone":          {171, 131, 84},
	"minecraft:stone_bricks":       {122, 122, 122},
	"minecraft:nether_bricks":      {44, 22, 26},
	"minecraft:end_stone":          {221, 223, 165},
	"minecraft:quartz_block":       {235, 229, 222},
	"minecraft:terracotta":         {152, 94, 67},
	"minecraft:white_wool":         {233, 236, 236},
	"minecraft:gold_block":         {249, 236, 78},
	"minecraft:iron_block":         {220, 220, 220},
	"minecraft:diamond_block":      {98, 219, 214},
	"minecraft:emerald_block":      {42, 203, 87},
	"minecraft:redstone_block":     {171, 27, 9},
	"minecraft:coal_block":         {16, 15, 15},
	"minecraft:sandstone":          {216, 203, 155},
	"minecraft:red_sandstone":      {181, 97, 31},
	"minecraft:sea_lantern":        {172, 199, 190},
	"minecraft:magma_block":        {142, 63, 31},
	"minecraft:purpur_block":       {169, 125, 169},
	"minecraft:bedrock":            {84, 84, 84},
	"minecraft:torch":              {255, 216, 0},
	"minecraft:crafting_table":     {123, 89, 55},
	"minecraft:furnace":            {110, 110, 110},
	"minecraft:chest":              {164, 114, 39},
	"minecraft:smooth_stone_slab":   {160, 160, 160},
	"minecraft:white_terracotta":    {209, 178, 161},
	"minecraft:white_stained_glass": {236, 236, 236},
}

// ColorFor resolves a block name to a color. Unknown names get a stable
// pseudo-color derived from the name so distinct blocks stay visually
// distinct in previews.
func ColorFor(name string) Color {
	if c, ok := blockColors[name]; ok {
		return c
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	v := h.Sum32()
	// Keep the channels out of the near-black range.
	return Color{
		R: uint8(v>>16) | 0x30,
		G: uint8(v>>8) | 0x30,
		B: uint8(v) | 0x30,
	}
}

// Preview is a top-down projection of a schematic: for every (x, z) column
// the color of the topmost non-air block, row-major by z. Empty columns are
// empty strings.
type Preview struct {
	Width  int        `json:"width"`
	Length int        `json:"length"`
	Pixels [][]string `json:"pixels"`
}

// TopDown projects the schematic onto the XZ plane.
func TopDown(s *schematic.Schematic) Preview {
	p := Preview{Width: s.SizeX, Length: s.SizeZ}
	if s.SizeX <= 0 || s.SizeZ <= 0 {
		return p
	}

	top := make([]int, s.SizeX*s.SizeZ)
	for i := range top {
		top[i] = -1
	}
	height := make([]int, s.SizeX*s.SizeZ)
	for _, b := range s.Blocks {
		if b.X < 0 || b.X >= s.SizeX || b.Z < 0 || b.Z >= s.SizeZ {
			continue
		}
		i := b.Z*s.SizeX + b.X
		if top[i] < 0 || b.Y >= height[i] {
			top[i] = b.PaletteIndex
			height[i] = b.Y
		}
	}

	p.Pixels = make([][]string, s.SizeZ)
	for z := 0; z < s.SizeZ; z++ {
		row := make([]string, s.SizeX)
		for x := 0; x < s.SizeX; x++ {
			if pi := top[z*s.SizeX+x]; pi >= 0 && pi < len(s.Palette) {
				row[x] = ColorFor(s.Palette[pi].Name).Hex()
			}
		}
		p.Pixels[z] = row
	}
	return p
}
