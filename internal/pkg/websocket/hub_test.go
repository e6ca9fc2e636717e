package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(h *Hub, scope string, buffer int) *Client {
	return &Client{hub: h, scope: scope, userID: "u-" + scope, send: make(chan []byte, buffer)}
}

func receive(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}
	return nil
}

func TestBroadcastReachesOnlyItsScope(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	global := newTestClient(h, "global", 4)
	session := newTestClient(h, "s1", 4)
	h.register <- global
	h.register <- session

	h.Broadcast(&Message{Type: MessageTypeChat, Scope: "s1", ID: "m1", Content: "bring the capo"})

	got := receive(t, session)
	if got.ID != "m1" || got.Content != "bring the capo" {
		t.Errorf("got %+v", got)
	}

	select {
	case <-global.send:
		t.Error("global subscriber received a session message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnregisterClosesSendAndDropsEmptyScope(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()

	c := newTestClient(h, "global", 1)
	h.register <- c
	h.unregister <- c

	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	if n := h.ClientsCount("global"); n != 0 {
		t.Errorf("ClientsCount = %d", n)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient(h, "global", 1)
	h.registerClient(c)

	h.broadcastMessage(&Message{Scope: "global", Content: "one"})
	h.broadcastMessage(&Message{Scope: "global", Content: "two"})

	if n := h.ClientsCount("global"); n != 0 {
		t.Errorf("slow client should be removed, count = %d", n)
	}
}
