package adapters

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/coloredcoins-network/pkg/logger"
	"github.com/gaze-network/coloredcoins-network/pkg/logger/slogx"
	"github.com/gorilla/websocket"
)

const eventInfo = "info"

type EventHandler func(ctx context.Context, data json.RawMessage)

type socketMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EventSocket receives {"event": name, "data": payload} messages over a websocket.
type EventSocket struct {
	url    string
	dialer *websocket.Dialer

	mu       sync.RWMutex
	conn     *websocket.Conn
	handlers map[string][]EventHandler
	onState  []func(connected bool)
	done     chan struct{}
}

func NewEventSocket(url string) *EventSocket {
	return &EventSocket{
		url:      url,
		dialer:   websocket.DefaultDialer,
		handlers: make(map[string][]EventHandler),
	}
}

// On registers a handler for an event name.
func (s *EventSocket) On(event string, fn EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], fn)
}

// OnState registers a connection state listener.
func (s *EventSocket) OnState(fn func(connected bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = append(s.onState, fn)
}

// Connect dials the socket and starts the read loop. Connecting twice is a no-op.
func (s *EventSocket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return nil
	}
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		s.mu.Unlock()
		return errors.Wrapf(err, "can't dial event socket %q", s.url)
	}
	s.conn = conn
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	ctx = logger.WithContext(context.WithoutCancel(ctx), slogx.String("package", "adapters"), slogx.String("socket", s.url))
	logger.InfoContext(ctx, "Connected to event socket")
	s.notifyState(true)

	go s.readLoop(ctx, conn, done)
	return nil
}

func (s *EventSocket) readLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer func() {
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
		close(done)
		s.notifyState(false)
	}()

	for {
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, websocket.ErrCloseSent) {
				logger.InfoContext(ctx, "Event socket closed")
				return
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				logger.WarnContext(ctx, "Dropped malformed socket message", slogx.Error(err))
				continue
			}
			logger.WarnContext(ctx, "Event socket disconnected", slogx.Error(err))
			return
		}

		s.mu.RLock()
		handlers := append([]EventHandler(nil), s.handlers[msg.Event]...)
		s.mu.RUnlock()
		for _, handler := range handlers {
			handler(ctx, msg.Data)
		}
	}
}

func (s *EventSocket) notifyState(connected bool) {
	s.mu.RLock()
	listeners := append([]func(bool){}, s.onState...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(connected)
	}
}

// Close closes the connection and waits for the read loop to stop.
func (s *EventSocket) Close() error {
	s.mu.Lock()
	conn, done := s.conn, s.done
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	defer func() { <-done }()

	err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		_ = conn.Close()
		return errors.Wrap(err, "can't send close message")
	}
	return errors.WithStack(conn.Close())
}
