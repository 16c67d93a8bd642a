// Package schematic decodes Minecraft structure exports (Sponge schematic,
// legacy schematic, Litematica and Bedrock .mcstructure containers) into one
// uniform sparse block model.
package schematic

// PaletteEntry describes one distinct block type: a namespaced identifier
// plus its block-state properties. Two entries are the same type iff the
// name and the full property set match.
type PaletteEntry struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Block is one non-air block position. Coordinates are 0-based and lie
// within the schematic's dimensions; PaletteIndex points into
// Schematic.Palette.
type Block struct {
	X            int `json:"x"`
	Y            int `json:"y"`
	Z            int `json:"z"`
	PaletteIndex int `json:"palette_index"`
}

// Schematic is the uniform decode result. It is constructed once per Parse
// call and not mutated afterwards. The palette is deduplicated and ordered
// by first appearance in the source; Blocks is sparse over non-air content.
type Schematic struct {
	SizeX int `json:"size_x"`
	SizeY int `json:"size_y"`
	SizeZ int `json:"size_z"`

	Palette []PaletteEntry `json:"palette"`
	Blocks  []Block        `json:"blocks"`

	// BlockCount == len(Blocks), precomputed for presenters.
	BlockCount int `json:"block_count"`
}
