package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
)

// uploadMetaSchema constrains the optional "meta" part of an upload request.
// The format enum is derived from the decoder's token list so the two never
// drift apart.
var uploadMetaSchema = fmt.Sprintf(`{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name":   {"type": "string", "minLength": 1, "maxLength": 120},
    "format": {"type": "string", "enum": [%s]},
    "tags":   {"type": "array", "items": {"type": "string", "maxLength": 40}, "maxItems": 16}
  },
  "additionalProperties": false
}`, formatEnum())

var compiledUploadMeta = jsonschema.MustCompileString("upload_meta.json", uploadMetaSchema)

func formatEnum() string {
	quoted := make([]string, len(schematic.Formats))
	for i, f := range schematic.Formats {
		quoted[i] = strconv.Quote(f)
	}
	return strings.Join(quoted, ", ")
}

// UploadMeta is the decoded form of a valid metadata document.
type UploadMeta struct {
	Name   string   `json:"name"`
	Format string   `json:"format"`
	Tags   []string `json:"tags"`
}

// ParseUploadMeta validates an upload metadata JSON document against the
// schema and decodes it. A nil/empty document is valid (all fields are
// optional).
func ParseUploadMeta(raw []byte) (UploadMeta, error) {
	var meta UploadMeta
	if len(raw) == 0 {
		return meta, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return meta, fmt.Errorf("upload meta: %w", err)
	}
	if err := compiledUploadMeta.Validate(v); err != nil {
		return meta, fmt.Errorf("upload meta: %w", err)
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return meta, fmt.Errorf("upload meta: %w", err)
	}
	return meta, nil
}
