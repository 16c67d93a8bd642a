package schematic

// packedReader extracts fixed-width unsigned fields laid out back-to-back,
// LSB-first, across an array of 64-bit words. A field may straddle two
// words. The source's signed longs are reinterpreted as unsigned for the
// bit arithmetic.
type packedReader struct {
	words []uint64
	bits  uint
	mask  uint64
}

// bitsPerEntry is max(2, ceil(log2(paletteSize))), the width Litematica
// uses for its block-state array.
func bitsPerEntry(paletteSize int) uint {
	bits := uint(2)
	for paletteSize > 1<<bits {
		bits++
	}
	return bits
}

func newPackedReader(longs []int64, paletteSize int) *packedReader {
	words := make([]uint64, len(longs))
	for i, l := range longs {
		words[i] = uint64(l)
	}
	bits := bitsPerEntry(paletteSize)
	return &packedReader{
		words: words,
		bits:  bits,
		mask:  1<<bits - 1,
	}
}

// get returns the field at logical index i. ok == false means the word
// array is exhausted; the caller treats that as end of data, not an error.
func (r *packedReader) get(i int) (field int, ok bool) {
	bitPos := uint(i) * r.bits
	word := int(bitPos / 64)
	offset := bitPos % 64
	if word >= len(r.words) {
		return 0, false
	}

	v := r.words[word] >> offset
	if offset+r.bits > 64 {
		// Field straddles into the next word.
		if word+1 < len(r.words) {
			v |= r.words[word+1] << (64 - offset)
		}
	}
	return int(v & r.mask), true
}
