package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/transport"
)

// EventConnected is sent once per session before anything else
const EventConnected = "connected"

const writeTimeout = 10 * time.Second

// Server plays a Script to every websocket session
type Server struct {
	script   atomic.Pointer[Script]
	clock    clock.Clock
	registry *prometheus.Registry
	metrics  *Metrics
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for step delays
func WithClock(c clock.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// NewServer creates a server answering with script
func NewServer(script *Script, opts ...Option) *Server {
	s := &Server{
		clock:    clock.New(),
		registry: prometheus.NewRegistry(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		sessions: make(map[*session]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.metrics = NewMetrics(s.registry)
	s.script.Store(script)
	return s
}

// Script returns the script new triggers are answered with
func (s *Server) Script() *Script {
	return s.script.Load()
}

// SetScript swaps the script. Sessions pick it up on their next trigger.
func (s *Server) SetScript(script *Script) {
	s.script.Store(script)
}

// Metrics exposes the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprintf(w, "ok %s\n", s.Script().Name)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then closes every session
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.With().Info().Str("addr", addr).Str("script", s.Script().Name).Msg("replay server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("replay server stopped: %w", err)
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Warn("replay server shutdown: %v", err)
	}
	s.Close()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close ends every open session and waits for their handlers
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	for sess := range s.sessions {
		sess.close(websocket.CloseGoingAway, "server shutdown")
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) closing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type session struct {
	id     string
	conn   *websocket.Conn
	cancel context.CancelFunc

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (sess *session) write(event string, payload any) error {
	frame, err := transport.Encode(event, payload)
	if err != nil {
		return err
	}
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return sess.conn.WriteMessage(websocket.TextMessage, frame)
}

func (sess *session) close(code int, reason string) {
	sess.closeOnce.Do(func() {
		sess.cancel()
		sess.writeMu.Lock()
		_ = sess.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
		sess.writeMu.Unlock()
		_ = sess.conn.Close()
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.closing() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}

	sid := r.URL.Query().Get("sid")
	if sid == "" {
		sid = uuid.NewString()
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	sess := &session{id: sid, conn: conn, cancel: cancel}

	s.mu.Lock()
	// Close may have started while the upgrade was in flight
	if s.closed {
		s.mu.Unlock()
		sess.close(websocket.CloseGoingAway, "server shutdown")
		return
	}
	s.sessions[sess] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()
	s.metrics.Sessions.Inc()
	s.metrics.Active.Inc()

	log := logger.With().With().Str("sid", sid).Logger()
	log.Info().Msg("session opened")

	defer func() {
		sess.close(websocket.CloseNormalClosure, "")
		s.mu.Lock()
		delete(s.sessions, sess)
		s.mu.Unlock()
		s.metrics.Active.Dec()
		log.Info().Msg("session closed")
		s.wg.Done()
	}()

	if err := s.send(sess, EventConnected, map[string]string{
		"status":     "Connected to Founders Vault",
		"session_id": sid,
	}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("read failed")
			}
			return
		}

		var env transport.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}
		s.metrics.Received.WithLabelValues(env.Event).Inc()

		var frames []Frame
		switch env.Event {
		case chatui.EmitProcessFile:
			frames = s.Script().Processing()
		case chatui.EmitChatMessage:
			var msg chatui.ChatMessagePayload
			if len(env.Data) > 0 {
				if err := json.Unmarshal(env.Data, &msg); err != nil {
					log.Debug().Err(err).Msg("malformed chat_message payload")
				}
			}
			if msg.Message == "" {
				s.metrics.Ignored.Inc()
				continue
			}
			log.Info().Str("query", msg.Message).Msg("chat message")
			frames = s.Script().Answer(msg.Message)
		default:
			log.Debug().Str("event", env.Event).Msg("ignoring event")
			continue
		}

		if err := s.play(ctx, sess, frames); err != nil {
			log.Debug().Err(err).Msg("playback stopped")
			return
		}
	}
}

func (s *Server) play(ctx context.Context, sess *session, frames []Frame) error {
	for _, f := range frames {
		if err := s.sleep(ctx, f.Delay); err != nil {
			return err
		}
		if err := s.send(sess, f.Event, f.Payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) send(sess *session, event string, payload any) error {
	if err := sess.write(event, payload); err != nil {
		return fmt.Errorf("failed to send %s: %w", event, err)
	}
	s.metrics.Sent.WithLabelValues(event).Inc()
	return nil
}

func (s *Server) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := s.clock.Timer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
