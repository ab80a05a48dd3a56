package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
)

// ErrClosed is returned by Emit once the connection is gone
var ErrClosed = errors.New("connection closed")

const (
	writeWait      = 10 * time.Second
	readLimit      = 1 << 20
	eventBufferLen = 64
)

// Client is a websocket connection to the chat server. It satisfies
// chatui.Transport.
type Client struct {
	conn *websocket.Conn
	sid  string

	events chan chatui.Event
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
}

type dialOptions struct {
	dialer *websocket.Dialer
	header http.Header
	sid    string
}

// DialOption configures Dial
type DialOption func(*dialOptions)

// WithDialer replaces the default websocket dialer
func WithDialer(d *websocket.Dialer) DialOption {
	return func(o *dialOptions) { o.dialer = d }
}

// WithHeader adds request headers to the handshake
func WithHeader(h http.Header) DialOption {
	return func(o *dialOptions) { o.header = h }
}

// WithSessionID fixes the session id instead of generating one
func WithSessionID(sid string) DialOption {
	return func(o *dialOptions) { o.sid = sid }
}

// Dial connects to rawURL and starts reading. A connect event is delivered
// first, once the handshake has completed.
func Dial(ctx context.Context, rawURL string, opts ...DialOption) (*Client, error) {
	o := dialOptions{dialer: websocket.DefaultDialer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sid == "" {
		o.sid = uuid.New().String()
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	q := u.Query()
	q.Set("sid", o.sid)
	u.RawQuery = q.Encode()

	conn, resp, err := o.dialer.DialContext(ctx, u.String(), o.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to %s (%s): %w", rawURL, resp.Status, err)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", rawURL, err)
	}
	conn.SetReadLimit(readLimit)

	c := &Client{
		conn:   conn,
		sid:    o.sid,
		events: make(chan chatui.Event, eventBufferLen),
		done:   make(chan struct{}),
	}
	c.events <- chatui.Connect{}
	go c.readLoop()

	logger.Info("connected to %s (sid %s)", rawURL, o.sid)
	return c, nil
}

// SessionID returns the id sent in the handshake
func (c *Client) SessionID() string {
	return c.sid
}

// Events implements chatui.Transport. The channel is closed when the
// connection ends.
func (c *Client) Events() <-chan chatui.Event {
	return c.events
}

// Emit implements chatui.Transport
func (c *Client) Emit(ctx context.Context, event string, payload any) error {
	frame, err := Encode(event, payload)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("failed to send %s: %w", event, err)
	}
	logger.Debug("sent %s", event)
	return nil
}

// Close sends a close frame and tears the connection down
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *Client) readLoop() {
	defer close(c.events)
	defer c.Close()

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("connection lost: %v", err)
			} else {
				logger.Debug("read loop ended: %v", err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			logger.Warn("dropping malformed frame: %v", err)
			continue
		}
		ev, err := Decode(env)
		if err != nil {
			logger.Debug("ignoring frame: %v", err)
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}
