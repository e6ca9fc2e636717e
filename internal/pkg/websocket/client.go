package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/bandhub/internal/app/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 16 * 1024

	// Time allowed to persist one inbound message
	postTimeout = 5 * time.Second
)

var (
	newline = []byte{'\n'}
	space   = []byte{' '}
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// inbound is what a client may send
type inbound struct {
	Content string `json:"content"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub     *Hub
	backend ChatBackend

	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	actor  models.Actor
	userID string
	scope  string

	logger zerolog.Logger
}

// readPump turns inbound frames into persisted chat messages
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Str("userID", c.userID).
					Str("scope", c.scope).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Str("userID", c.userID).
					Str("scope", c.scope).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Str("userID", c.userID).
					Str("scope", c.scope).
					Msg("WebSocket read error")
			}
			break
		}

		raw = bytes.TrimSpace(bytes.Replace(raw, newline, space, -1))

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug().
				Err(err).
				Str("userID", c.userID).
				Msg("Failed to unmarshal client message")
			c.reply(MessageTypeError, "message must be JSON with a content field")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
		// the backend persists and broadcasts; author and scope come from the connection
		_, err = c.backend.PostMessage(ctx, c.actor, c.scope, msg.Content)
		cancel()
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("userID", c.userID).
				Str("scope", c.scope).
				Msg("Failed to post WebSocket message")
			c.reply(MessageTypeError, "message was not posted")
		}
	}
}

// reply sends a message to this client only
func (c *Client) reply(msgType, content string) {
	data, err := json.Marshal(&Message{
		Type:      msgType,
		Scope:     c.scope,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued chat messages
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write(newline)
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
