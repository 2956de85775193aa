package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/bot"
	"github.com/MARYAMM27/portfolio-bot-go/internal/constants"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/pkg/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type connState string

const (
	connStateOpen     connState = "OPEN"
	connStateDraining connState = "DRAINING"
	connStateClosed   connState = "CLOSED"
)

// chatConn pairs one websocket connection with one chat session. Every
// outbound frame goes through the write pump so writes never interleave.
type chatConn struct {
	id      string
	conn    *websocket.Conn
	session *bot.Session
	server  *Server
	logger  *zap.Logger

	send     chan any
	done     chan struct{}
	pumpDone chan struct{}
	stopOnce sync.Once

	stateMu sync.Mutex
	state   connState
}

func (s *Server) handleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
			return
		}

		info := domain.NewSessionContext(r.RemoteAddr, "websocket")
		cc := &chatConn{
			id:       info.SessionID,
			conn:     conn,
			server:   s,
			logger:   s.logger.With(zap.String("session_id", info.SessionID)),
			send:     make(chan any, 32),
			done:     make(chan struct{}),
			pumpDone: make(chan struct{}),
			state:    connStateOpen,
		}
		cc.session = bot.NewSession(*info, bot.SessionConfig{
			Assistant:      s.deps.Assistant,
			Delay:          s.opts.ResponseDelay,
			MinQueryLength: s.opts.MinQueryLength,
			OnMessage:      func(msg domain.Message) { cc.enqueue(msg) },
			Logger:         s.logger,
		})

		s.connsWg.Add(1)
		s.register(cc)
		cc.logger.Info("Chat session opened", zap.String("remote_addr", info.RemoteAddr))

		go cc.writePump()
		cc.session.Start()
		cc.readPump()
	}
}

func (cc *chatConn) readPump() {
	defer cc.close()

	cc.conn.SetReadLimit(constants.WebSocketConfig.MaxMessageSize)
	_ = cc.conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongTimeout))
	cc.conn.SetPongHandler(func(string) error {
		return cc.conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.PongTimeout))
	})

	for {
		_, payload, err := cc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				cc.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		query, err := cc.server.deps.Adapter.ParseFrame(payload)
		if err != nil {
			cc.enqueue(errorPayload(err))
			continue
		}

		if _, err := cc.session.Submit(query); err != nil {
			switch {
			case stderrors.Is(err, bot.ErrInputTooShort):
				cc.enqueue(errorPayload(errors.NewValidationError("query is empty or too short", "text", query)))
			case stderrors.Is(err, bot.ErrSessionClosed):
				return
			default:
				cc.logger.Error("Submit failed", zap.Error(err))
			}
		}
	}
}

func (cc *chatConn) writePump() {
	defer close(cc.pumpDone)
	ticker := time.NewTicker(constants.WebSocketConfig.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cc.done:
			return
		case frame := <-cc.send:
			_ = cc.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
			if err := cc.conn.WriteJSON(frame); err != nil {
				cc.logger.Warn("WebSocket write failed", zap.Error(err))
				cc.stop()
				return
			}
		case <-ticker.C:
			_ = cc.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout))
			if err := cc.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cc.stop()
				return
			}
		}
	}
}

func (cc *chatConn) enqueue(frame any) {
	select {
	case cc.send <- frame:
	case <-cc.done:
	}
}

// drain delivers pending replies, then closes the connection with a normal
// close frame. Used on server shutdown.
func (cc *chatConn) drain(ctx context.Context) {
	if !cc.transition(connStateOpen, connStateDraining) {
		return
	}
	if err := cc.session.Close(ctx); err != nil {
		cc.logger.Warn("Chat session drain interrupted", zap.Error(err))
	}
	cc.flush(ctx)

	cc.stop()
	select {
	case <-cc.pumpDone:
	case <-ctx.Done():
	}

	deadline := time.Now().Add(constants.WebSocketConfig.WriteTimeout)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	_ = cc.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	_ = cc.conn.Close()
}

// flush waits until the write pump has taken every queued frame.
func (cc *chatConn) flush(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for len(cc.send) > 0 {
		select {
		case <-ctx.Done():
			return
		case <-cc.done:
			return
		case <-ticker.C:
		}
	}
}

func (cc *chatConn) close() {
	cc.stateMu.Lock()
	prev := cc.state
	cc.state = connStateClosed
	cc.stateMu.Unlock()
	if prev == connStateClosed {
		return
	}

	cc.session.Abort()
	cc.stop()
	_ = cc.conn.Close()
	cc.server.unregister(cc)
	cc.server.connsWg.Done()
	cc.logger.Info("Chat session closed", zap.Int("messages", len(cc.session.Messages())))
}

func (cc *chatConn) stop() {
	cc.stopOnce.Do(func() { close(cc.done) })
}

func (cc *chatConn) transition(from, to connState) bool {
	cc.stateMu.Lock()
	defer cc.stateMu.Unlock()
	if cc.state != from {
		return false
	}
	cc.state = to
	return true
}
