// Package ws pushes structure-stored events to WebSocket subscribers (the
// gallery's live feed).
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Klee319/MCBuilding-sub001/internal/building"
	"github.com/Klee319/MCBuilding-sub001/internal/protocol"
	"github.com/Klee319/MCBuilding-sub001/internal/storage"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

type Server struct {
	svc *building.Service
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(svc *building.Service, logger *log.Logger) *Server {
	return &Server{
		svc: svc,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Printf("ws upgrade: %v", err)
			return
		}
		defer conn.Close()

		events, cancel := s.svc.Subscribe()
		defer cancel()

		done := make(chan struct{})

		// Reader goroutine: the feed is one-way, reads only detect close.
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case rec, ok := <-events:
				if !ok {
					return
				}
				if err := s.writeEvent(conn, rec); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func (s *Server) writeEvent(conn *websocket.Conn, rec storage.Record) error {
	ev := protocol.Event{
		Type: protocol.EventStructureStored,
		Structure: protocol.StructureSummary{
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
		},
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
