// Author: Jon Brown
// Date: Mar 30, 2024
// URL: https://github.com/brojonat/websocket

// Package websocket wraps gorilla connections in clients with one reader and
// one writer goroutine each, and groups them by lane for broadcasting.
package websocket

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 512
	pongWait       = 60 * time.Second
	egressBuffer   = 32
)

var ErrClientClosed = errors.New("client closed")

// DefaultSetupConn limits message size and extends the read deadline on every pong.
func DefaultSetupConn(c *websocket.Conn) {
	c.SetReadLimit(maxMessageSize)
	_ = c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		_ = c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
}

// DefaultUpgrader accepts only the listed origins. An empty list or "*"
// accepts any origin.
func DefaultUpgrader(origins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(origins) == 0 || slices.Contains(origins, "*") {
				return true
			}
			return slices.Contains(origins, origin)
		},
	}
}

// Client is one websocket peer. Writes are queued and performed by
// WriteForever; reads are delivered to handlers by ReadForever.
type Client interface {
	io.Writer
	io.Closer

	WriteForever(ctx context.Context, onDestroy func(Client), ping time.Duration)
	ReadForever(ctx context.Context, onDestroy func(Client), handlers ...MessageHandler)
	Conn() *websocket.Conn
	Wait()
}

type MessageHandler func(Client, []byte)

// ServeWS upgrades the request, builds a client, hands it to onCreate, and
// starts its read and write loops. onDestroy may be called once per loop.
func ServeWS(
	upgrader websocket.Upgrader,
	connSetup func(*websocket.Conn),
	clientFactory func(*websocket.Conn) Client,
	onCreate func(context.Context, context.CancelFunc, Client),
	onDestroy func(Client),
	ping time.Duration,
	handlers []MessageHandler,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied with an error
			return
		}
		connSetup(conn)
		client := clientFactory(conn)
		ctx, cancel := context.WithCancel(context.Background())
		onCreate(ctx, cancel, client)

		go client.WriteForever(ctx, onDestroy, ping)
		go client.ReadForever(ctx, onDestroy, handlers...)
	}
}

type client struct {
	mu     sync.Mutex
	closed bool
	wg     *sync.WaitGroup
	conn   *websocket.Conn
	egress chan []byte
	logger *slog.Logger
}

// NewClientFactory returns a ServeWS client factory that logs through logger.
func NewClientFactory(logger *slog.Logger) func(*websocket.Conn) Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(c *websocket.Conn) Client {
		wg := &sync.WaitGroup{}
		wg.Add(2)
		return &client{
			wg:     wg,
			conn:   c,
			egress: make(chan []byte, egressBuffer),
			logger: logger.With(slog.String("remote", c.RemoteAddr().String())),
		}
	}
}

func (c *client) Conn() *websocket.Conn {
	return c.conn
}

// Write queues p for the writer goroutine. It fails instead of blocking when
// the client is closed or its queue is full.
func (c *client) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, ErrClientClosed
	}
	select {
	case c.egress <- p:
		return len(p), nil
	default:
		return 0, errors.New("client egress queue full")
	}
}

// Close is safe to call more than once.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.egress)
	c.mu.Unlock()

	_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
	return c.conn.Close()
}

func (c *client) WriteForever(ctx context.Context, onDestroy func(Client), ping time.Duration) {
	pingTicker := time.NewTicker(ping)
	defer func() {
		c.wg.Done()
		pingTicker.Stop()
		onDestroy(c)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.egress:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Error("error writing message", slog.Any("error", err))
				return
			}
		case <-pingTicker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error("error writing ping", slog.Any("error", err))
				return
			}
		}
	}
}

// ReadForever hands each message to every handler in turn, one message at a
// time, so handlers observe messages in arrival order.
func (c *client) ReadForever(ctx context.Context, onDestroy func(Client), handlers ...MessageHandler) {
	defer func() {
		c.wg.Done()
		onDestroy(c)
	}()

	ingress := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, payload, err := c.conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case ingress <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("read loop cancelled")
			return
		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.Warn("read loop closed unexpectedly", slog.Any("error", err))
			}
			return
		case payload := <-ingress:
			for _, h := range handlers {
				h(c, payload)
			}
		}
	}
}

// Wait blocks until the read and write loops have returned.
func (c *client) Wait() {
	c.wg.Wait()
}
