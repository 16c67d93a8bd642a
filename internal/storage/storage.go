// Package storage defines the stored form of a decoded structure and the
// repository contract shared by the SQLite and in-memory backends.
package storage

import (
	"context"
	"time"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
)

// Record is one stored structure: the decode summary plus the compressed
// original payload, kept so blocks can be re-decoded on demand instead of
// being persisted row-by-row.
type Record struct {
	ID     string
	Name   string
	Format string
	Sha256 string

	SizeX      int
	SizeY      int
	SizeZ      int
	BlockCount int

	Palette []schematic.PaletteEntry
	Tags    []string

	CreatedAt time.Time

	// Payload is the original upload, gzip-compressed.
	Payload []byte
}

// Store is the structure repository.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
	// BySha256 finds an existing record with the same content hash,
	// enabling content-addressed dedup of repeated uploads.
	BySha256(ctx context.Context, sha string) (Record, bool, error)
	// List returns summaries (no payload), newest first.
	List(ctx context.Context) ([]Record, error)
	Close() error
}
