package protocol

const (
	// Request validation.
	ErrBadRequest        = "E_BAD_REQUEST"
	ErrTooLarge          = "E_TOO_LARGE"
	ErrUnsupportedFormat = "E_UNSUPPORTED_FORMAT"

	// Decode pipeline.
	ErrParseFailed = "E_PARSE_FAILED"

	// Lookup/state.
	ErrNotFound = "E_NOT_FOUND"
	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:        {},
	ErrTooLarge:          {},
	ErrUnsupportedFormat: {},
	ErrParseFailed:       {},
	ErrNotFound:          {},
	ErrInternal:          {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
