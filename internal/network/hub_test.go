package network

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/idlerack/idlerack/internal/platform/logger"
	"github.com/idlerack/idlerack/internal/platform/tuning"
)

func TestHubShutdownReleasesObservers(t *testing.T) {
	h := NewHub(tuning.DefaultConfig(), logger.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(h.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Let the registration land before tearing down.
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop on context cancel")
	}

	// Teardown closes the connection, so the observer's read errors out
	// promptly and the server-side pumps unwind with it.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("connection still open after hub shutdown")
	}

	// An observer arriving after shutdown must be released, not parked on
	// the register channel.
	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		late.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := late.ReadMessage(); err == nil {
			t.Fatal("post-shutdown observer was not released")
		}
		late.Close()
	}
}
