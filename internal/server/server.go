// Package server is the host-adapter boundary: a socket.io endpoint that
// accepts declarative graph and asset-list updates from clients and pushes
// clock ticks and asset-load progress back out. It owns no reconciliation
// logic; everything inbound is forwarded to the applier and cache.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"

	"github.com/wavekit/wavegraph/internal/applier"
	"github.com/wavekit/wavegraph/internal/assets"
	"github.com/wavekit/wavegraph/internal/ctxlog"
	"github.com/wavekit/wavegraph/internal/wire"
)

// Server bridges socket.io clients to the reconciler.
type Server struct {
	logger  *slog.Logger
	applier *applier.Applier
	cache   *assets.Cache
	io      *socket.Server

	mu      sync.Mutex
	clients map[*socket.Socket]struct{}
}

// New creates the server and registers its connection handlers. The cache's
// progress callback is claimed here: every decoded-set change is pushed to
// all connected clients.
func New(logger *slog.Logger, ap *applier.Applier, cache *assets.Cache) *Server {
	s := &Server{
		logger:  logger,
		applier: ap,
		cache:   cache,
		io:      socket.NewServer(nil, nil),
		clients: make(map[*socket.Socket]struct{}),
	}

	s.cache.OnProgress(func(decoded []string) {
		s.Broadcast("progress", decoded)
	})

	s.io.On("connection", func(args ...any) {
		client := args[0].(*socket.Socket)
		s.onConnect(client)
	})
	return s
}

func (s *Server) onConnect(client *socket.Socket) {
	s.logger.Info("Client connected.", "sid", client.Id())
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	client.On("graph", func(data ...any) {
		if len(data) == 0 {
			return
		}
		if err := s.handleGraph(data[0]); err != nil {
			s.logger.Error("Rejected graph update.", "sid", client.Id(), "error", err)
			client.Emit("error", err.Error())
		}
	})

	client.On("assets", func(data ...any) {
		if len(data) == 0 {
			return
		}
		urls, err := decodeAssetList(data[0])
		if err != nil {
			s.logger.Error("Rejected asset list.", "sid", client.Id(), "error", err)
			client.Emit("error", err.Error())
			return
		}
		s.cache.Preload(urls)
	})

	client.On("disconnect", func(...any) {
		s.logger.Info("Client disconnected.", "sid", client.Id())
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
	})

	// Late joiners get the current progress immediately.
	if decoded := s.cache.Snapshot(); len(decoded) > 0 {
		client.Emit("progress", decoded)
	}
}

// handleGraph re-marshals the socket.io payload into bytes, decodes the
// wire format and hands the result to the applier.
func (s *Server) handleGraph(payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("graph payload not serializable: %w", err)
	}
	g, err := wire.DecodeGraph(raw)
	if err != nil {
		return err
	}
	s.applier.Apply(g)
	return nil
}

func decodeAssetList(payload any) ([]string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("asset list not serializable: %w", err)
	}
	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil, fmt.Errorf("asset list must be an array of URLs: %w", err)
	}
	return urls, nil
}

// Broadcast emits an event to every connected client.
func (s *Server) Broadcast(event string, payload any) {
	s.mu.Lock()
	targets := make([]*socket.Socket, 0, len(s.clients))
	for c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		c.Emit(event, payload)
	}
}

// Tick pushes one clock sample to every client; wired as the ticker's
// callback.
func (s *Server) Tick(now float64) {
	s.Broadcast("tick", now)
}

// Handler returns the HTTP mux serving the socket.io endpoint and the
// health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	mux.HandleFunc("/health", s.healthHandler)
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// Close shuts the socket.io server down.
func (s *Server) Close() {
	s.io.Close(nil)
}
