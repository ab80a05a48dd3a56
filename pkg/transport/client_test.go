package transport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// scriptedServer accepts one websocket, records what it receives and
// sends whatever the test writes to outbound
type scriptedServer struct {
	server   *httptest.Server
	sids     chan string
	received chan transport.Envelope
	outbound chan string
	hangup   chan struct{}
}

func newScriptedServer() *scriptedServer {
	s := &scriptedServer{
		sids:     make(chan string, 4),
		received: make(chan transport.Envelope, 16),
		outbound: make(chan string, 16),
		hangup:   make(chan struct{}),
	}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.sids <- r.URL.Query().Get("sid")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				_, frame, err := conn.ReadMessage()
				if err != nil {
					return
				}
				var env transport.Envelope
				if json.Unmarshal(frame, &env) == nil {
					s.received <- env
				}
			}
		}()

		for {
			select {
			case frame := <-s.outbound:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
					return
				}
			case <-s.hangup:
				return
			case <-gone:
				return
			}
		}
	}))
	return s
}

func (s *scriptedServer) url() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
}

var _ = Describe("Client", func() {
	var (
		srv    *scriptedServer
		client *transport.Client
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		srv = newScriptedServer()
		client = nil
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	})

	AfterEach(func() {
		if client != nil {
			client.Close()
		}
		cancel()
		srv.server.Close()
	})

	It("sends a generated session id and delivers connect first", func() {
		var err error
		client, err = transport.Dial(ctx, srv.url())
		Expect(err).ToNot(HaveOccurred())

		var sid string
		Eventually(srv.sids).Should(Receive(&sid))
		Expect(sid).To(Equal(client.SessionID()))
		Expect(sid).To(HaveLen(36))

		Eventually(client.Events()).Should(Receive(Equal(chatui.Connect{})))
	})

	It("honors a fixed session id and http urls", func() {
		var err error
		client, err = transport.Dial(ctx, srv.server.URL+"/ws", transport.WithSessionID("fixed-sid"))
		Expect(err).ToNot(HaveOccurred())
		Eventually(srv.sids).Should(Receive(Equal("fixed-sid")))
	})

	It("decodes server frames in order", func() {
		var err error
		client, err = transport.Dial(ctx, srv.url())
		Expect(err).ToNot(HaveOccurred())
		Eventually(client.Events()).Should(Receive(Equal(chatui.Connect{})))

		srv.outbound <- `{"event":"stream_start"}`
		srv.outbound <- `not json`
		srv.outbound <- `{"event":"mystery"}`
		srv.outbound <- `{"event":"stream_chunk","data":"Hel"}`
		srv.outbound <- `{"event":"stream_chunk","data":{"chunk":"lo"}}`

		Eventually(client.Events()).Should(Receive(Equal(chatui.StreamStart{})))
		Eventually(client.Events()).Should(Receive(Equal(chatui.StreamChunk{Chunk: "Hel"})))
		Eventually(client.Events()).Should(Receive(Equal(chatui.StreamChunk{Chunk: "lo"})))
	})

	It("emits envelopes", func() {
		var err error
		client, err = transport.Dial(ctx, srv.url())
		Expect(err).ToNot(HaveOccurred())

		Expect(client.Emit(ctx, chatui.EmitChatMessage, chatui.ChatMessagePayload{Message: "revenue?"})).To(Succeed())

		var env transport.Envelope
		Eventually(srv.received).Should(Receive(&env))
		Expect(env.Event).To(Equal(chatui.EmitChatMessage))
		Expect(string(env.Data)).To(MatchJSON(`{"message":"revenue?"}`))
	})

	It("closes the event channel when the server hangs up", func() {
		var err error
		client, err = transport.Dial(ctx, srv.url())
		Expect(err).ToNot(HaveOccurred())
		Eventually(client.Events()).Should(Receive(Equal(chatui.Connect{})))

		close(srv.hangup)
		Eventually(client.Events()).Should(BeClosed())
		Expect(client.Emit(ctx, chatui.EmitChatMessage, chatui.ChatMessagePayload{})).To(MatchError(transport.ErrClosed))
	})

	It("reports dial failures", func() {
		_, err := transport.Dial(ctx, "ws://127.0.0.1:1/ws")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("failed to connect"))
	})
})
