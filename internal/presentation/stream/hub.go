// Package stream broadcasts live session events to websocket clients.
package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// Message types sent to clients.
const (
	TypeSample = "sample"
	TypeState  = "state"
	TypeClear  = "clear"
)

// Message is one websocket frame.
type Message struct {
	Type   string          `json:"type"`
	Time   int64           `json:"time"` // unix milliseconds
	State  string          `json:"state,omitempty"`
	Update *session.Update `json:"update,omitempty"`
}

// Status is the body of GET /api/status.
type Status struct {
	State   string          `json:"state"`
	Clients int             `json:"clients"`
	Update  *session.Update `json:"update,omitempty"`
}

const (
	socketBufferSize = 1024
	forwardBuffer    = 256
)

var upgrader = &websocket.Upgrader{
	ReadBufferSize:  socketBufferSize,
	WriteBufferSize: socketBufferSize,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub fans session events out to every connected client. It implements
// session.Observer; observer calls never block on the network.
type Hub struct {
	forward chan []byte
	join    chan *client
	leave   chan *client
	done    chan struct{}
	clients map[*client]bool
	count   atomic.Int64
	dropped atomic.Int64

	mu     sync.RWMutex
	state  model.TrackingState
	latest *session.Update

	now func() time.Time
}

// NewHub makes a hub that is ready to Run.
func NewHub() *Hub {
	return &Hub{
		forward: make(chan []byte, forwardBuffer),
		join:    make(chan *client),
		leave:   make(chan *client),
		done:    make(chan struct{}),
		clients: make(map[*client]bool),
		now:     time.Now,
	}
}

// Run dispatches messages until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.remove(c)
			}
			return
		case c := <-h.join:
			h.clients[c] = true
			h.count.Store(int64(len(h.clients)))
			util.LogDebugf("Stream client joined from %s", c.socket.RemoteAddr())
		case c := <-h.leave:
			if h.clients[c] {
				h.remove(c)
				util.LogDebugf("Stream client left")
			}
		case msg := <-h.forward:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					util.LogWarnf("Dropping slow stream client %s", c.socket.RemoteAddr())
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Store(int64(len(h.clients)))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int { return int(h.count.Load()) }

// Dropped returns how many messages were discarded because the hub was
// saturated.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

func (h *Hub) SampleAvailable(u session.Update) {
	h.mu.Lock()
	h.latest = &u
	h.mu.Unlock()
	h.publish(Message{Type: TypeSample, Update: &u})
}

func (h *Hub) StateChanged(state model.TrackingState) {
	h.mu.Lock()
	h.state = state
	h.mu.Unlock()
	h.publish(Message{Type: TypeState, State: state.String()})
}

func (h *Hub) Cleared() {
	h.mu.Lock()
	h.latest = nil
	h.mu.Unlock()
	h.publish(Message{Type: TypeClear})
}

func (h *Hub) publish(msg Message) {
	msg.Time = h.now().UnixMilli()
	data, err := sonic.Marshal(msg)
	if err != nil {
		util.LogErrorf("Failed to encode stream message: %v", err)
		return
	}
	select {
	case h.forward <- data:
	default:
		h.dropped.Add(1)
	}
}

// Status returns the state and latest update.
func (h *Hub) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Status{State: h.state.String(), Clients: h.Clients(), Update: h.latest}
}

// Handler routes /ws and /api/status.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("/api/status", h.handleStatus)
	return mux
}

func (h *Hub) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := sonic.Marshal(h.Status())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		util.LogDebugf("Failed to write status response: %v", err)
	}
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		util.LogWarnf("Stream upgrade failed: %v", err)
		return
	}
	c := &client{
		socket: socket,
		send:   make(chan []byte, constants.StreamClientBuffer),
	}
	select {
	case h.join <- c:
	case <-h.done:
		socket.Close()
		return
	}
	defer func() {
		select {
		case h.leave <- c:
		case <-h.done:
		}
	}()
	go c.write()
	c.read()
}

// Serve listens on addr until ctx is cancelled.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: constants.StreamWriteTimeout,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.StreamWriteTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	util.LogInfof("Streaming telemetry on http://%s/ws", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
