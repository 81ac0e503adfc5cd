package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/bdgscotland/openchart-styles/internal/event"
)

// Handler provides the WebSocket endpoint for real-time catalog updates.
// Every event published on the bus is forwarded to all connected editor
// clients, so open tabs stay in sync when presets or themes change.
type Handler struct {
	hub    *Hub
	bus    *event.Bus
	logger *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to catalog events.
func NewHandler(bus *event.Bus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/catalog", h.handleCatalogStream)
}

// ClientCount reports how many editor clients are currently connected.
func (h *Handler) ClientCount() int {
	return h.hub.ClientCount()
}

// handleCatalogStream upgrades the connection to WebSocket and streams
// catalog events. This is a single-user local service, so there is no
// token exchange; the default origin check restricts connections to
// pages served from the same host.
func (h *Handler) handleCatalogStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		addr:   r.RemoteAddr,
		send:   make(chan Message, sendBuffer),
		logger: h.logger,
	}

	h.hub.Register(client)

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	// Client disconnected -- stop write pump and unregister.
	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents forwards every bus event to all connected clients.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	h.bus.SubscribeAll(func(_ context.Context, e event.Event) {
		h.hub.Broadcast(Message{
			Type:      e.Topic,
			Source:    e.Source,
			Timestamp: e.Timestamp,
			Data:      e.Payload,
		})
	})

	h.logger.Info("subscribed to catalog events for WebSocket broadcasting")
}
