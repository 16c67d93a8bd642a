// Package httpapi exposes the structure service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/Klee319/MCBuilding-sub001/internal/building"
	"github.com/Klee319/MCBuilding-sub001/internal/protocol"
	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
	"github.com/Klee319/MCBuilding-sub001/internal/schematic/render"
)

const defaultBlocksPageLimit = 10_000

type Server struct {
	svc            *building.Service
	log            *log.Logger
	maxUploadBytes int64
}

func NewServer(svc *building.Service, logger *log.Logger, maxUploadBytes int64) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 32 << 20
	}
	return &Server{svc: svc, log: logger, maxUploadBytes: maxUploadBytes}
}

// Register wires the API routes onto mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/v1/structures", s.handleCollection)
	mux.HandleFunc("/v1/structures/", s.handleItem)
}

func (s *Server) handleCollection(rw http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleUpload(rw, r)
	case http.MethodGet:
		s.handleList(rw, r)
	default:
		writeError(rw, http.StatusMethodNotAllowed, protocol.ErrBadRequest, "method not allowed")
	}
}

func (s *Server) handleUpload(rw http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(rw, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(rw, http.StatusRequestEntityTooLarge, protocol.ErrTooLarge, "upload too large or not multipart")
		return
	}

	meta, err := protocol.ParseUploadMeta([]byte(r.FormValue("meta")))
	if err != nil {
		writeError(rw, http.StatusBadRequest, protocol.ErrBadRequest, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(rw, http.StatusBadRequest, protocol.ErrBadRequest, "missing file part")
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(rw, http.StatusRequestEntityTooLarge, protocol.ErrTooLarge, "upload too large")
		return
	}

	format := meta.Format
	if format == "" {
		format = strings.TrimPrefix(path.Ext(header.Filename), ".")
	}
	name := meta.Name
	if name == "" {
		name = strings.TrimSuffix(header.Filename, path.Ext(header.Filename))
	}

	rec, created, err := s.svc.Ingest(r.Context(), name, format, raw, meta.Tags)
	if err != nil {
		s.writeIngestError(rw, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(rw, status, toDetail(rec))
}

func (s *Server) handleList(rw http.ResponseWriter, r *http.Request) {
	recs, err := s.svc.List(r.Context())
	if err != nil {
		s.log.Printf("list structures: %v", err)
		writeError(rw, http.StatusInternalServerError, protocol.ErrInternal, "list failed")
		return
	}
	out := make([]protocol.StructureSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toSummary(rec))
	}
	writeJSON(rw, http.StatusOK, out)
}

func (s *Server) handleItem(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(rw, http.StatusMethodNotAllowed, protocol.ErrBadRequest, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/structures/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(rw, http.StatusBadRequest, protocol.ErrBadRequest, "missing structure id")
		return
	}

	switch sub {
	case "":
		rec, err := s.svc.Get(r.Context(), id)
		if err != nil {
			s.writeLookupError(rw, err)
			return
		}
		writeJSON(rw, http.StatusOK, toDetail(rec))

	case "blocks":
		parsed, err := s.svc.Schematic(r.Context(), id)
		if err != nil {
			s.writeLookupError(rw, err)
			return
		}
		writeJSON(rw, http.StatusOK, blocksPage(parsed, r))

	case "preview":
		parsed, err := s.svc.Schematic(r.Context(), id)
		if err != nil {
			s.writeLookupError(rw, err)
			return
		}
		writeJSON(rw, http.StatusOK, render.TopDown(parsed))

	default:
		writeError(rw, http.StatusNotFound, protocol.ErrNotFound, "unknown resource")
	}
}

func blocksPage(parsed *schematic.Schematic, r *http.Request) protocol.BlocksPage {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultBlocksPageLimit)
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > defaultBlocksPageLimit {
		limit = defaultBlocksPageLimit
	}

	total := len(parsed.Blocks)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return protocol.BlocksPage{
		Blocks: parsed.Blocks[offset:end],
		Offset: offset,
		Limit:  limit,
		Total:  total,
	}
}

func (s *Server) writeIngestError(rw http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schematic.ErrUnsupportedFormat):
		writeError(rw, http.StatusBadRequest, protocol.ErrUnsupportedFormat, err.Error())
	case errors.Is(err, building.ErrTooManyBlocks):
		writeError(rw, http.StatusRequestEntityTooLarge, protocol.ErrTooLarge, err.Error())
	default:
		// Anything else from Ingest is a decode failure; uploads of broken
		// exports are routine, not server faults.
		writeError(rw, http.StatusUnprocessableEntity, protocol.ErrParseFailed, "could not read structure file")
	}
}

func (s *Server) writeLookupError(rw http.ResponseWriter, err error) {
	if errors.Is(err, building.ErrNotFound) {
		writeError(rw, http.StatusNotFound, protocol.ErrNotFound, "structure not found")
		return
	}
	s.log.Printf("structure lookup: %v", err)
	writeError(rw, http.StatusInternalServerError, protocol.ErrInternal, "lookup failed")
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeError(rw http.ResponseWriter, status int, code, msg string) {
	writeJSON(rw, status, protocol.ErrorBody{Code: code, Message: msg})
}
