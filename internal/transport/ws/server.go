// Package ws serves completions over a websocket. Each inbound text frame is
// a completion request; requests on one connection are answered in order.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/logging"
)

// Frame types.
const (
	TypeMessages = "messages"
	TypeError    = "error"
)

// Error codes that are not dispatch outcomes.
const (
	CodeInvalidMessage = "invalid_message"
	CodeInvalidInput   = "invalid_input"
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeRateLimited    = "rate_limited"
)

// Completer runs one completion for the caller in ctx.
type Completer interface {
	Complete(ctx context.Context, in domain.CompletionInput) (*domain.CompletionResponse, error)
}

// Frame is an outbound websocket message.
type Frame struct {
	Type     string           `json:"type"`
	ChatID   string           `json:"chat_id,omitempty"`
	Messages []domain.Message `json:"messages,omitempty"`
	Code     string           `json:"code,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// Options tunes connection keepalive and limits.
type Options struct {
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64
	// CheckOrigin overrides the upgrader origin check. Nil allows every origin.
	CheckOrigin func(r *http.Request) bool
}

func (o Options) withDefaults() Options {
	if o.PingInterval <= 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 60 * time.Second
	}
	if o.PingInterval >= o.ReadTimeout {
		o.PingInterval = o.ReadTimeout * 9 / 10
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = 64 << 10
	}
	return o
}

// Server handles websocket connections.
type Server struct {
	completer Completer
	opts      Options
	upgrader  websocket.Upgrader
	logger    zerolog.Logger
}

// NewServer creates a new websocket server.
func NewServer(completer Completer, opts Options, logger zerolog.Logger) *Server {
	opts = opts.withDefaults()
	checkOrigin := opts.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Server{
		completer: completer,
		opts:      opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// Handle upgrades the request and serves the connection until it closes.
// Closing the socket cancels the request in flight.
func (s *Server) Handle(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the error response.
		s.logger.Warn().Err(err).Msg("failed to upgrade websocket")
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	logger := logging.Ctx(ctx, s.logger)

	conn.SetReadLimit(s.opts.MaxMessageSize)
	sess := &session{
		server:   s,
		conn:     conn,
		send:     make(chan Frame, 16),
		requests: make(chan []byte, 16),
		logger:   logger,
	}

	wg := conc.NewWaitGroup()
	wg.Go(func() { sess.writePump(ctx) })
	wg.Go(func() { sess.work(ctx) })
	sess.readPump(ctx)
	cancel()
	wg.Wait()

	logger.Debug().Msg("websocket closed")
	return nil
}

type session struct {
	server   *Server
	conn     *websocket.Conn
	send     chan Frame
	requests chan []byte
	logger   zerolog.Logger
}

// readPump reads frames until the connection fails and queues them for work.
func (s *session) readPump(ctx context.Context) {
	defer close(s.requests)

	_ = s.conn.SetReadDeadline(time.Now().Add(s.server.opts.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.server.opts.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		select {
		case s.requests <- data:
		case <-ctx.Done():
			return
		}
	}
}

// work answers queued requests one at a time.
func (s *session) work(ctx context.Context) {
	for data := range s.requests {
		if ctx.Err() != nil {
			return
		}
		s.push(ctx, s.handle(ctx, data))
	}
}

func (s *session) handle(ctx context.Context, data []byte) Frame {
	var in domain.CompletionInput
	if err := json.Unmarshal(data, &in); err != nil {
		return Frame{Type: TypeError, Code: CodeInvalidMessage, Message: "invalid JSON message"}
	}
	resp, err := s.server.completer.Complete(ctx, in)
	if err != nil {
		return s.errorFrame(err)
	}
	return Frame{Type: TypeMessages, ChatID: resp.ChatID, Messages: resp.Messages}
}

func (s *session) errorFrame(err error) Frame {
	code := errorCode(err)
	msg := err.Error()
	if code == domain.OutcomeInternal {
		s.logger.Error().Err(err).Msg("websocket completion failed")
		msg = "internal server error"
	}
	return Frame{Type: TypeError, Code: code, Message: msg}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, domain.ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, domain.ErrInvalidInput):
		return CodeInvalidInput
	}
	return domain.Outcome(err)
}

func (s *session) push(ctx context.Context, f Frame) {
	select {
	case s.send <- f:
	case <-ctx.Done():
	}
}

// writePump is the only writer on the connection.
func (s *session) writePump(ctx context.Context) {
	ticker := time.NewTicker(s.server.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.opts.WriteTimeout))
			if err := s.conn.WriteJSON(f); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write websocket frame")
				_ = s.conn.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.server.opts.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.conn.Close()
				return
			}
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.server.opts.WriteTimeout))
			return
		}
	}
}
