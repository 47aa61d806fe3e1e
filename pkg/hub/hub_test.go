package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// addClient registers a bare client with a running hub. The pumps are
// not started; tests read from the send channel directly.
func addClient(t *testing.T, h *Hub, buffer int) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, buffer)}
	select {
	case h.register <- c:
	case <-time.After(time.Second):
		t.Fatal("register blocked")
	}
	return c
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", h.ClientCount(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	a := addClient(t, h, 4)
	b := addClient(t, h, 4)
	waitForClients(t, h, 2)

	if err := h.BroadcastJSON(map[string]int{"n": 7}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.send:
			var got map[string]int
			if err := json.Unmarshal(payload, &got); err != nil {
				t.Fatalf("payload not JSON: %v", err)
			}
			if got["n"] != 7 {
				t.Errorf("payload = %v", got)
			}
		case <-time.After(time.Second):
			t.Fatal("client received nothing")
		}
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New("test")
	go h.Run(ctx)

	slow := addClient(t, h, 1)
	waitForClients(t, h, 1)

	// The first payload fills the buffer; the second finds it full
	// and evicts the client.
	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two"))

	waitForClients(t, h, 0)

	// The hub closed the send channel on eviction.
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("send channel still open after eviction")
	}
}

func TestHubShutdownDisconnectsClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := New("test")
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := addClient(t, h, 1)
	waitForClients(t, h, 1)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-c.send; ok {
		t.Error("send channel still open after shutdown")
	}
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d after shutdown", h.ClientCount())
	}
}
