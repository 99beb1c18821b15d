package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"stockfeed/internal/domain"
	"stockfeed/internal/infra"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// controlMessage is the inbound pause/resume signal. Anything that does
// not parse into a known action is ignored, not fatal.
type controlMessage struct {
	Action string `json:"action"` // "pause" or "resume"
}

// subscription binds one websocket connection to one pipeline run.
// The write pump is the only writer on the connection; onTick hands it
// serialized updates through a bounded send channel.
type subscription struct {
	conn   *websocket.Conn
	send   chan []byte
	paused atomic.Bool
	cancel context.CancelFunc
}

func newSubscription(conn *websocket.Conn, sendBuffer int, cancel context.CancelFunc) *subscription {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &subscription{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		cancel: cancel,
	}
}

// onTick serializes one TradeUpdate and queues it for the write pump.
// While paused the pipeline keeps ticking but nothing is queued. A full
// send buffer drops the update rather than stalling the pipeline.
func (s *subscription) onTick(update domain.TradeUpdate) {
	if s.paused.Load() {
		return
	}

	payload, err := json.Marshal(update)
	if err != nil {
		// Fatal to this tick only
		slog.Warn("Failed to encode trade update",
			slog.String("symbol", update.Quote.Symbol), slog.Any("error", err))
		return
	}

	select {
	case s.send <- payload:
	default:
		infra.GlobalMetrics.RecordDroppedMessage()
	}
}

// readPump consumes inbound control messages until the connection
// closes or errors, then cancels the subscription context.
func (s *subscription) readPump() {
	defer s.cancel()

	s.conn.SetReadLimit(1024)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg controlMessage
		if json.Unmarshal(payload, &msg) != nil {
			continue
		}
		switch msg.Action {
		case "pause":
			s.paused.Store(true)
		case "resume":
			s.paused.Store(false)
		}
	}
}

// writePump owns all writes on the connection: queued updates and
// keepalive pings. Returns when the context is cancelled or a write
// fails.
func (s *subscription) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case payload := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.cancel()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}
		}
	}
}
