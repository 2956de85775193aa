package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MARYAMM27/portfolio-bot-go/internal/adapter"
	"github.com/MARYAMM27/portfolio-bot-go/internal/domain"
	"github.com/MARYAMM27/portfolio-bot-go/internal/util"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Frame is one server push: a transcript message or an error.
type Frame struct {
	Message *domain.Message
	Error   *domain.ErrorDetail
}

type inboundFrame struct {
	domain.Message
	Error *domain.ErrorDetail `json:"error,omitempty"`
}

type FrameCallback func(frame Frame)

type StateCallback func(state SocketState)

type SocketState string

const (
	StateConnecting   SocketState = "CONNECTING"
	StateConnected    SocketState = "CONNECTED"
	StateDisconnected SocketState = "DISCONNECTED"
	StateReconnecting SocketState = "RECONNECTING"
	StateFailed       SocketState = "FAILED"
)

func (s SocketState) String() string {
	return string(s)
}

type callbackEntry struct {
	id       int
	callback FrameCallback
}

type stateCallbackEntry struct {
	id       int
	callback StateCallback
}

// ChatSocket is a websocket chat client. A dropped connection is redialed up
// to maxReconnectAttempts times; each redial starts a new server session.
type ChatSocket struct {
	wsURL                string
	conn                 *websocket.Conn
	connMu               sync.RWMutex
	writeMu              sync.Mutex
	state                SocketState
	stateMu              sync.RWMutex
	frameCallbacks       []callbackEntry
	stateCallbacks       []stateCallbackEntry
	nextCallbackID       int
	callbacksMu          sync.RWMutex
	reconnectAttempts    int
	maxReconnectAttempts int
	reconnectDelay       time.Duration
	logger               *zap.Logger
	stopCh               chan struct{}
	stopOnce             sync.Once
	listenerWg           sync.WaitGroup
}

func NewChatSocket(wsURL string, maxReconnectAttempts int, reconnectDelay time.Duration, logger *zap.Logger) *ChatSocket {
	return &ChatSocket{
		wsURL:                wsURL,
		state:                StateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		reconnectDelay:       reconnectDelay,
		logger:               util.LoggerOrNop(logger),
		stopCh:               make(chan struct{}),
		frameCallbacks:       make([]callbackEntry, 0),
		stateCallbacks:       make([]stateCallbackEntry, 0),
		nextCallbackID:       1,
	}
}

func (ws *ChatSocket) Connect(ctx context.Context) error {
	ws.stateMu.Lock()
	if ws.state == StateConnected || ws.state == StateConnecting {
		ws.stateMu.Unlock()
		ws.logger.Warn("WebSocket already connected or connecting")
		return nil
	}
	ws.stateMu.Unlock()

	ws.setState(StateConnecting)

	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.DialContext(ctx, ws.wsURL, nil)
	if err != nil {
		ws.logger.Error("Failed to connect WebSocket", zap.Error(err))
		ws.setState(StateFailed)
		ws.scheduleReconnect(ctx)
		return err
	}

	ws.connMu.Lock()
	ws.conn = conn
	ws.connMu.Unlock()
	ws.setState(StateConnected)
	ws.reconnectAttempts = 0

	ws.logger.Info("WebSocket connected", zap.String("url", ws.wsURL))

	ws.listenerWg.Add(1)
	go ws.listen(ctx, conn)

	return nil
}

// Send submits one query.
func (ws *ChatSocket) Send(text string) error {
	ws.connMu.RLock()
	conn := ws.conn
	ws.connMu.RUnlock()
	if conn == nil {
		return fmt.Errorf("websocket not connected")
	}

	ws.writeMu.Lock()
	defer ws.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(adapter.ChatFrame{Text: text})
}

func (ws *ChatSocket) listen(ctx context.Context, conn *websocket.Conn) {
	defer ws.listenerWg.Done()
	defer ws.logger.Debug("WebSocket listener stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ws.stopCh:
			return
		default:
		}

		_, msgBytes, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-ws.stopCh:
				return
			default:
			}
			ws.logger.Warn("WebSocket read error", zap.Error(err))
			ws.setState(StateDisconnected)
			ws.scheduleReconnect(ctx)
			return
		}

		ws.handleFrame(msgBytes)
	}
}

func (ws *ChatSocket) handleFrame(data []byte) {
	var inbound inboundFrame
	if err := json.Unmarshal(data, &inbound); err != nil {
		ws.logger.Error("Failed to parse frame",
			zap.Error(err),
			zap.String("data", util.TruncateString(string(data), 200)),
		)
		return
	}

	var frame Frame
	if inbound.Error != nil {
		frame.Error = inbound.Error
	} else {
		msg := inbound.Message
		frame.Message = &msg
	}

	ws.callbacksMu.RLock()
	callbacks := make([]callbackEntry, len(ws.frameCallbacks))
	copy(callbacks, ws.frameCallbacks)
	ws.callbacksMu.RUnlock()

	for _, entry := range callbacks {
		entry.callback(frame)
	}
}

func (ws *ChatSocket) scheduleReconnect(ctx context.Context) {
	ws.reconnectAttempts++

	if ws.reconnectAttempts > ws.maxReconnectAttempts {
		ws.logger.Error("Max reconnect attempts reached",
			zap.Int("attempts", ws.reconnectAttempts),
		)
		ws.setState(StateFailed)
		return
	}

	ws.setState(StateReconnecting)

	ws.logger.Info("Scheduling reconnect",
		zap.Int("attempt", ws.reconnectAttempts),
		zap.Int("max", ws.maxReconnectAttempts),
		zap.Duration("delay", ws.reconnectDelay),
	)

	go func() {
		select {
		case <-time.After(ws.reconnectDelay):
			if err := ws.Connect(ctx); err != nil {
				ws.logger.Error("Reconnect failed", zap.Error(err))
			}
		case <-ctx.Done():
		case <-ws.stopCh:
		}
	}()
}

// OnFrame registers callback and returns its unregister func.
func (ws *ChatSocket) OnFrame(callback FrameCallback) func() {
	ws.callbacksMu.Lock()
	id := ws.nextCallbackID
	ws.nextCallbackID++
	ws.frameCallbacks = append(ws.frameCallbacks, callbackEntry{
		id:       id,
		callback: callback,
	})
	ws.callbacksMu.Unlock()

	return func() {
		ws.callbacksMu.Lock()
		defer ws.callbacksMu.Unlock()
		for i, entry := range ws.frameCallbacks {
			if entry.id == id {
				ws.frameCallbacks = append(ws.frameCallbacks[:i], ws.frameCallbacks[i+1:]...)
				break
			}
		}
	}
}

func (ws *ChatSocket) OnStateChange(callback StateCallback) func() {
	ws.callbacksMu.Lock()
	id := ws.nextCallbackID
	ws.nextCallbackID++
	ws.stateCallbacks = append(ws.stateCallbacks, stateCallbackEntry{
		id:       id,
		callback: callback,
	})
	ws.callbacksMu.Unlock()

	return func() {
		ws.callbacksMu.Lock()
		defer ws.callbacksMu.Unlock()
		for i, entry := range ws.stateCallbacks {
			if entry.id == id {
				ws.stateCallbacks = append(ws.stateCallbacks[:i], ws.stateCallbacks[i+1:]...)
				break
			}
		}
	}
}

func (ws *ChatSocket) setState(newState SocketState) {
	ws.stateMu.Lock()
	oldState := ws.state
	ws.state = newState
	ws.stateMu.Unlock()

	if oldState != newState {
		ws.logger.Debug("WebSocket state changed",
			zap.String("from", oldState.String()),
			zap.String("to", newState.String()),
		)

		ws.callbacksMu.RLock()
		callbacks := make([]stateCallbackEntry, len(ws.stateCallbacks))
		copy(callbacks, ws.stateCallbacks)
		ws.callbacksMu.RUnlock()

		for _, entry := range callbacks {
			entry.callback(newState)
		}
	}
}

func (ws *ChatSocket) GetState() SocketState {
	ws.stateMu.RLock()
	defer ws.stateMu.RUnlock()
	return ws.state
}

func (ws *ChatSocket) IsConnected() bool {
	return ws.GetState() == StateConnected
}

func (ws *ChatSocket) Disconnect() error {
	ws.stopOnce.Do(func() {
		close(ws.stopCh)
	})

	ws.connMu.Lock()
	conn := ws.conn
	ws.conn = nil
	ws.connMu.Unlock()

	if conn != nil {
		ws.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		ws.writeMu.Unlock()
		if err := conn.Close(); err != nil {
			ws.logger.Error("Failed to close WebSocket", zap.Error(err))
			return err
		}
	}

	ws.reconnectAttempts = 0
	ws.setState(StateDisconnected)
	ws.logger.Info("WebSocket disconnected")

	done := make(chan struct{})
	go func() {
		ws.listenerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		ws.logger.Warn("Timeout waiting for listener to stop")
	}

	return nil
}
