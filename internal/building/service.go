// Package building orchestrates the upload pipeline: hash, decode, store,
// and fan events out to feed subscribers. Repeated uploads of the same bytes
// dedup on content hash, and decoded schematics are kept in an LRU cache so
// block/preview requests do not re-decode popular structures.
package building

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/Klee319/MCBuilding-sub001/internal/schematic"
	"github.com/Klee319/MCBuilding-sub001/internal/storage"
)

// ErrNotFound reports an unknown structure id.
var ErrNotFound = errors.New("structure not found")

// ErrTooManyBlocks reports a decode that exceeds the configured block budget.
var ErrTooManyBlocks = errors.New("structure exceeds block limit")

type Service struct {
	store     storage.Store
	cache     *lru.Cache[string, *schematic.Schematic]
	newID     func() string
	now       func() time.Time
	maxBlocks int
	queueSize int

	mu      sync.Mutex
	subs    map[int]chan storage.Record
	nextSub int
}

type Options struct {
	// CacheSize is the number of decoded schematics kept in memory.
	CacheSize int
	// MaxBlocks rejects oversized structures; 0 disables the limit.
	MaxBlocks int
	// QueueSize is the per-subscriber event buffer.
	QueueSize int
	// NewID and Now exist for tests; nil picks uuid/time defaults.
	NewID func() string
	Now   func() time.Time
}

func New(store storage.Store, opts Options) (*Service, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	cache, err := lru.New[string, *schematic.Schematic](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:     store,
		cache:     cache,
		newID:     opts.NewID,
		now:       opts.Now,
		maxBlocks: opts.MaxBlocks,
		queueSize: opts.QueueSize,
		subs:      make(map[int]chan storage.Record),
	}, nil
}

// Ingest decodes one upload and stores it. When the same bytes were stored
// before, the existing record is returned and created is false.
func (s *Service) Ingest(ctx context.Context, name, format string, raw []byte, tags []string) (storage.Record, bool, error) {
	sum := sha256.Sum256(raw)
	sha := hex.EncodeToString(sum[:])

	if existing, ok, err := s.store.BySha256(ctx, sha); err != nil {
		return storage.Record{}, false, err
	} else if ok {
		return existing, false, nil
	}

	parsed, err := schematic.Parse(raw, format)
	if err != nil {
		return storage.Record{}, false, err
	}
	if s.maxBlocks > 0 && parsed.BlockCount > s.maxBlocks {
		return storage.Record{}, false, fmt.Errorf("%w: %d blocks", ErrTooManyBlocks, parsed.BlockCount)
	}

	if name == "" {
		name = "untitled"
	}
	rec := storage.Record{
		ID:         s.newID(),
		Name:       name,
		Format:     format,
		Sha256:     sha,
		SizeX:      parsed.SizeX,
		SizeY:      parsed.SizeY,
		SizeZ:      parsed.SizeZ,
		BlockCount: parsed.BlockCount,
		Palette:    parsed.Palette,
		Tags:       tags,
		CreatedAt:  s.now().UTC(),
		Payload:    compress(raw),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return storage.Record{}, false, err
	}

	s.cache.Add(sha, parsed)
	s.broadcast(rec)
	return rec, true, nil
}

// Get returns one stored record.
func (s *Service) Get(ctx context.Context, id string) (storage.Record, error) {
	rec, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return storage.Record{}, err
	}
	if !ok {
		return storage.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// List returns stored summaries, newest first.
func (s *Service) List(ctx context.Context) ([]storage.Record, error) {
	return s.store.List(ctx)
}

// Schematic returns the decoded form of a stored structure, re-decoding the
// persisted payload on a cache miss. The stored payload is gzip-framed, so
// the parser's decompression gate restores it transparently.
func (s *Service) Schematic(ctx context.Context, id string) (*schematic.Schematic, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if parsed, ok := s.cache.Get(rec.Sha256); ok {
		return parsed, nil
	}
	parsed, err := schematic.Parse(rec.Payload, rec.Format)
	if err != nil {
		return nil, fmt.Errorf("re-decode %s: %w", id, err)
	}
	s.cache.Add(rec.Sha256, parsed)
	return parsed, nil
}

// Subscribe registers a feed receiver. The returned cancel func must be
// called when the receiver goes away. Slow receivers drop events rather than
// stalling ingestion.
func (s *Service) Subscribe() (<-chan storage.Record, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan storage.Record, s.queueSize)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (s *Service) broadcast(rec storage.Record) {
	rec.Payload = nil
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- rec:
		default:
		}
	}
}

// compress gzips the payload for storage. Uploads that arrive gzip-framed
// already (the usual on-disk form of .schem and .litematic) are stored
// unchanged: wrapping them again would bury the NBT under two layers, and
// the decode gate strips only one.
func compress(b []byte) []byte {
	if len(b) >= 2 && b[0] == 0x1f && b[1] == 0x8b {
		return b
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}
