package replay_test

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/headless"
	"github.com/killallgit/vaultchat/pkg/replay"
	"github.com/killallgit/vaultchat/pkg/transport"
)

const quickScript = `
name: quick
process_file:
  - event: status
    data: {message: "Reading PDF Document...", icon: "📄"}
  - event: ready
chat_message:
  - event: process_status
    data: {step: thinking, message: "Deconstructing query..."}
  - event: process_status
    data: {step: indexing, message: "Indexed 1 relevant segments"}
    cards:
      - page: "2"
        content: "Cash on hand covers nineteen months."
  - event: stream
    text: "Answer to {{message}} follows."
    sources: "report.pdf p.2"
`

func mustParse(src string) *replay.Script {
	s, err := replay.ParseScript([]byte(src))
	Expect(err).NotTo(HaveOccurred())
	return s
}

func drain(events <-chan chatui.Event, n int) []chatui.Event {
	var got []chatui.Event
	for i := 0; i < n; i++ {
		var ev chatui.Event
		Eventually(events, 5*time.Second).Should(Receive(&ev))
		got = append(got, ev)
	}
	return got
}

var _ = Describe("Server", func() {
	var (
		srv *replay.Server
		ts  *httptest.Server
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		srv = replay.NewServer(mustParse(quickScript))
		ts = httptest.NewServer(srv.Handler())
		DeferCleanup(func() {
			srv.Close()
			ts.Close()
		})
	})

	dial := func() *transport.Client {
		c, err := transport.Dial(ctx, ts.URL+"/ws")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = c.Close() })
		return c
	}

	It("answers process_file with the processing steps", func() {
		c := dial()
		Expect(drain(c.Events(), 1)).To(Equal([]chatui.Event{chatui.Connect{}}))

		Expect(c.Emit(ctx, chatui.EmitProcessFile, chatui.ProcessFilePayload{})).To(Succeed())
		Expect(drain(c.Events(), 2)).To(Equal([]chatui.Event{
			chatui.Status{Message: "Reading PDF Document...", Icon: "📄"},
			chatui.Ready{},
		}))

		Eventually(func() float64 {
			return promtest.ToFloat64(srv.Metrics().Sent.WithLabelValues(replay.EventConnected))
		}).Should(Equal(1.0))
		Expect(promtest.ToFloat64(srv.Metrics().Sessions)).To(Equal(1.0))
	})

	It("streams the answer with the query substituted", func() {
		c := dial()
		drain(c.Events(), 1)

		Expect(c.Emit(ctx, chatui.EmitChatMessage, chatui.ChatMessagePayload{Message: "runway"})).To(Succeed())
		got := drain(c.Events(), 8)

		Expect(got[0]).To(Equal(chatui.ProcessStatus{Step: chatui.StepThinking, Message: "Deconstructing query..."}))
		Expect(got[1]).To(Equal(chatui.ProcessStatus{
			Step:    chatui.StepIndexing,
			Message: "Indexed 1 relevant segments",
			Data:    []chatui.IndexCard{{ID: "1", Page: "2", Content: "Cash on hand covers nineteen months...."}},
		}))
		Expect(got[2]).To(Equal(chatui.StreamStart{}))
		Expect(got[3:8]).To(Equal([]chatui.Event{
			chatui.StreamChunk{Chunk: "Answer "},
			chatui.StreamChunk{Chunk: "to "},
			chatui.StreamChunk{Chunk: "runway "},
			chatui.StreamChunk{Chunk: "follows."},
			chatui.StreamEnd{Sources: "report.pdf p.2"},
		}))
		Consistently(c.Events(), 200*time.Millisecond).ShouldNot(Receive())
	})

	It("ignores empty queries", func() {
		c := dial()
		drain(c.Events(), 1)

		Expect(c.Emit(ctx, chatui.EmitChatMessage, chatui.ChatMessagePayload{})).To(Succeed())
		Eventually(func() float64 {
			return promtest.ToFloat64(srv.Metrics().Ignored)
		}).Should(Equal(1.0))
		Consistently(c.Events(), 200*time.Millisecond).ShouldNot(Receive())
	})

	It("ignores malformed chat_message payloads", func() {
		c := dial()
		drain(c.Events(), 1)

		Expect(c.Emit(ctx, chatui.EmitChatMessage, "not an object")).To(Succeed())
		Eventually(func() float64 {
			return promtest.ToFloat64(srv.Metrics().Ignored)
		}).Should(Equal(1.0))
		Consistently(c.Events(), 200*time.Millisecond).ShouldNot(Receive())
	})

	It("uses a swapped script on the next trigger", func() {
		c := dial()
		drain(c.Events(), 1)

		srv.SetScript(mustParse("name: swapped\nprocess_file:\n  - event: ready\n    data: {preview: \"<p>hi</p>\"}\n"))
		Expect(c.Emit(ctx, chatui.EmitProcessFile, nil)).To(Succeed())
		Expect(drain(c.Events(), 1)).To(Equal([]chatui.Event{chatui.Ready{Preview: "<p>hi</p>"}}))
	})

	It("closes sessions on shutdown", func() {
		c := dial()
		drain(c.Events(), 1)
		Eventually(func() float64 { return promtest.ToFloat64(srv.Metrics().Active) }).Should(Equal(1.0))

		srv.Close()
		Eventually(c.Events(), 5*time.Second).Should(BeClosed())
		Expect(promtest.ToFloat64(srv.Metrics().Active)).To(Equal(0.0))
	})

	It("refuses new sessions once closed", func() {
		srv.Close()

		_, err := transport.Dial(ctx, ts.URL+"/ws")
		Expect(err).To(HaveOccurred())
		Expect(promtest.ToFloat64(srv.Metrics().Sessions)).To(Equal(0.0))
	})

	It("serves health and metrics", func() {
		dial()

		get := func(path string) string {
			resp, err := ts.Client().Get(ts.URL + path)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			return string(body)
		}

		Expect(get("/healthz")).To(Equal("ok quick\n"))
		Eventually(func() string { return get("/metrics") }).
			Should(ContainSubstring("vaultchat_replay_sessions_total 1"))
	})

	It("drives a headless session end to end", func() {
		c := dial()
		var out, errOut bytes.Buffer

		err := headless.RunHeadless(ctx, headless.Config{
			Transport: c,
			Options:   chatui.DefaultOptions(),
			Prompt:    "runway",
			Out:       &out,
			Err:       &errOut,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(ContainSubstring("[100%] " + chatui.LabelComplete))
		Expect(out.String()).To(ContainSubstring("Answer to runway follows."))
		Expect(out.String()).To(ContainSubstring("report.pdf p.2"))
		Expect(errOut.String()).To(BeEmpty())
	})
})

var _ = Describe("Watch", func() {
	It("reloads the script file when it changes", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "script.yaml")
		Expect(os.WriteFile(path, []byte(quickScript), 0644)).To(Succeed())

		srv := replay.NewServer(mustParse(quickScript))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Watch(ctx, path) }()
		DeferCleanup(func() {
			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})

		broken := []byte("name: broken\nprocess_file: []\n")
		swapped := []byte("name: swapped\nprocess_file:\n  - event: ready\n")

		Eventually(func() float64 {
			Expect(os.WriteFile(path, broken, 0644)).To(Succeed())
			return promtest.ToFloat64(srv.Metrics().Reloads.WithLabelValues("error"))
		}, 5*time.Second, 300*time.Millisecond).Should(BeNumerically(">=", 1))
		Expect(srv.Script().Name).To(Equal("quick"))

		Eventually(func() string {
			Expect(os.WriteFile(path, swapped, 0644)).To(Succeed())
			return srv.Script().Name
		}, 5*time.Second, 300*time.Millisecond).Should(Equal("swapped"))
	})
})
