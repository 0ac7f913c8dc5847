package server

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/esologic/folio/internal/logfields"
)

// LiveReloadHub manages SSE clients for rebuild broadcasts.
//
// Client channels are never closed; shutdown is signalled through the hub's
// done channel so a broadcast in flight can never send on a closed channel.
type LiveReloadHub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]*lrClient
	closed    bool
	lastToken string
	done      chan struct{}
}

type lrClient struct {
	id int
	ch chan string
}

// NewLiveReloadHub creates an empty hub.
func NewLiveReloadHub() *LiveReloadHub {
	return &LiveReloadHub{
		clients: map[int]*lrClient{},
		done:    make(chan struct{}),
	}
}

// Broadcast notifies every connected client that the site was rebuilt.
// token identifies the build; clients connecting after a broadcast receive
// the latest token on connect. Safe to call concurrently with Close.
func (h *LiveReloadHub) Broadcast(token string) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.lastToken = token
	clients := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case c.ch <- token:
		default:
			// Slow client; it gets the latest token on reconnect.
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *LiveReloadHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops accepting clients and disconnects existing ones.
func (h *LiveReloadHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	h.clients = map[int]*lrClient{}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &lrClient{ch: make(chan string, 8)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	last := h.lastToken
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, client.id)
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		slog.Debug("livereload write", logfields.Error(err))
		return
	}
	if err := bw.Flush(); err != nil {
		return
	}
	flusher.Flush()

	// Replay the most recent build so a client that connected between
	// rebuilds still reloads exactly once.
	if last != "" {
		if err := writeEvent(bw, flusher, last); err != nil {
			return
		}
	}

	hb := time.NewTicker(30 * time.Second)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case token := <-client.ch:
			if err := writeEvent(bw, flusher, token); err != nil {
				return
			}
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := bw.Flush(); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(bw *bufio.Writer, flusher http.Flusher, token string) error {
	if _, err := bw.WriteString("data: {\"build\":\"" + token + "\"}\n\n"); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
