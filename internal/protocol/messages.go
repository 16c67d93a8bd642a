// Package protocol defines the wire types of the structure service: the
// JSON DTOs the HTTP API and the WebSocket feed emit, the error codes
// clients branch on, and the JSON Schema for upload metadata.
package protocol

import "github.com/Klee319/MCBuilding-sub001/internal/schematic"

// StructureSummary is the list/feed view of one stored structure.
type StructureSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Format      string `json:"format"`
	SizeX       int    `json:"size_x"`
	SizeY       int    `json:"size_y"`
	SizeZ       int    `json:"size_z"`
	BlockCount  int    `json:"block_count"`
	PaletteSize int    `json:"palette_size"`
	Sha256      string `json:"sha256"`
	CreatedAt   string `json:"created_at"` // RFC 3339 UTC
}

// StructureDetail adds the full palette to the summary.
type StructureDetail struct {
	StructureSummary
	Palette []schematic.PaletteEntry `json:"palette"`
}

// BlocksPage is one page of a structure's sparse block list.
type BlocksPage struct {
	Blocks []schematic.Block `json:"blocks"`
	Offset int               `json:"offset"`
	Limit  int               `json:"limit"`
	Total  int               `json:"total"`
}

// ErrorBody is the uniform error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Event types pushed on the WebSocket feed.
const (
	EventStructureStored = "STRUCTURE_STORED"
)

// Event is one feed message.
type Event struct {
	Type      string           `json:"type"`
	Structure StructureSummary `json:"structure"`
}
