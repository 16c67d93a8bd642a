package schematic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic/nbtx"
)

// ErrUnsupportedFormat is returned by Parse for a format token outside the
// four known containers.
var ErrUnsupportedFormat = errors.New("unsupported structure format")

// Formats lists the accepted format tokens (file extensions without dot).
var Formats = []string{"schem", "schematic", "litematic", "mcstructure"}

// Parse decodes one structure file into the uniform model. The format token
// is the file extension (with or without leading dot, any case). The call is
// a pure single-shot transform: it either returns a complete Schematic or an
// error, never a partial result.
func Parse(raw []byte, format string) (*Schematic, error) {
	token := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	data := nbtx.Inflate(raw)

	switch token {
	case "schem", "schematic":
		root, err := nbtx.DecodeJava(data)
		if err != nil {
			return nil, err
		}
		// Both layouts share the extension. Try the Sponge layout first and
		// fall back once to the classic layout; a second failure propagates.
		s, spongeErr := decodeSponge(root)
		if spongeErr == nil {
			return s, nil
		}
		s, legacyErr := decodeLegacy(root)
		if legacyErr != nil {
			return nil, fmt.Errorf("schematic: %v; %w", spongeErr, legacyErr)
		}
		return s, nil

	case "litematic":
		root, err := nbtx.DecodeJava(data)
		if err != nil {
			return nil, err
		}
		return decodeLitematica(root)

	case "mcstructure":
		root, err := nbtx.DecodeBedrock(data)
		if err != nil {
			return nil, err
		}
		return decodeMcstructure(root)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
