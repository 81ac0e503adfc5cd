package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/bdgscotland/openchart-styles/internal/event"
	"github.com/bdgscotland/openchart-styles/internal/server"
)

// TestCatalogStreamThroughMiddlewareChain dials the catalog feed through the
// same middleware stack the production server builds, so the upgrade has to
// hijack the connection through the logging wrapper.
func TestCatalogStreamThroughMiddlewareChain(t *testing.T) {
	logger := testLogger()
	bus := event.NewBus(logger)
	h := NewHandler(bus, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	opsPaths := []string{"/healthz", "/readyz", "/metrics"}
	handler := server.Chain(mux,
		server.RecoveryMiddleware(logger),
		server.RequestIDMiddleware,
		server.LoggingMiddleware(logger, opsPaths),
		server.SecurityHeadersMiddleware,
		server.VersionHeaderMiddleware,
		server.RateLimitMiddleware(100, 200, opsPaths),
	)

	srv := httptest.NewServer(handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := strings.Replace(srv.URL, "http://", "ws://", 1) + "/api/v1/ws/catalog"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial() through middleware chain failed: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Wait for the server side to register the client before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(5 * time.Millisecond)
	}

	bus.Publish(context.Background(), event.Event{
		Topic:   event.TopicPresetCreated,
		Source:  "catalog",
		Payload: map[string]string{"id": "preset-1"},
	})

	var msg Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if msg.Type != event.TopicPresetCreated {
		t.Errorf("message Type = %q, want %q", msg.Type, event.TopicPresetCreated)
	}
	if msg.Source != "catalog" {
		t.Errorf("message Source = %q, want catalog", msg.Source)
	}
}
