package httpapi

import (
	"time"

	"github.com/Klee319/MCBuilding-sub001/internal/protocol"
	"github.com/Klee319/MCBuilding-sub001/internal/storage"
)

func toSummary(rec storage.Record) protocol.StructureSummary {
	return protocol.StructureSummary{
		ID:          rec.ID,
		Name:        rec.Name,
		Format:      rec.Format,
		SizeX:       rec.SizeX,
		SizeY:       rec.SizeY,
		SizeZ:       rec.SizeZ,
		BlockCount:  rec.BlockCount,
		PaletteSize: len(rec.Palette),
		Sha256:      rec.Sha256,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toDetail(rec storage.Record) protocol.StructureDetail {
	return protocol.StructureDetail{
		StructureSummary: toSummary(rec),
		Palette:          rec.Palette,
	}
}
