package schematic

// Air-equivalent block types are suppressed from the sparse block list.
// Membership is an exact name match after namespace normalization and is
// independent of block-state properties.
var airNames = map[string]struct{}{
	"minecraft:air":      {},
	"minecraft:cave_air": {},
	"minecraft:void_air": {},
}

func isAir(name string) bool {
	_, ok := airNames[name]
	return ok
}
