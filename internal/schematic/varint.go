package schematic

// maxVarintBytes bounds a single varint to 5 bytes (enough for 32-bit
// values) so a corrupt stream with the continuation bit stuck high cannot
// consume unbounded input. Hitting the bound ends the value, it is not an
// error.
const maxVarintBytes = 5

// readUvarint decodes one byte-oriented little-endian base-128 value from b
// starting at off: 7 data bits per byte, continuation while the top bit is
// set. It returns the value and the number of bytes consumed; n == 0 means
// the buffer was exhausted and the caller's loop should stop.
func readUvarint(b []byte, off int) (val, n int) {
	for n < maxVarintBytes && off+n < len(b) {
		c := b[off+n]
		val |= int(c&0x7F) << (7 * n)
		n++
		if c&0x80 == 0 {
			return val, n
		}
	}
	return val, n
}
