package chatui_test

import (
	"context"
	"errors"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/testutil"
	"github.com/killallgit/vaultchat/pkg/testutil/fixtures"
	"github.com/killallgit/vaultchat/pkg/testutil/mocks"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// eventLog records the events a controller finished handling
type eventLog struct {
	mu       sync.Mutex
	names    []string
	unlocked int
	settled  int
}

func (l *eventLog) record(ev chatui.Event, _ chatui.State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, chatui.Name(ev))
	if chatui.InputUnlocked(ev) {
		l.unlocked++
	}
	if chatui.TurnSettled(ev) {
		l.settled++
	}
}

func (l *eventLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, got := range l.names {
		if got == name {
			n++
		}
	}
	return n
}

func (l *eventLog) counters() (unlocked, settled int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unlocked, l.settled
}

var _ = Describe("Controller", func() {
	var (
		transport *testutil.FakeTransport
		view      *testutil.RecordingView
		clk       *clock.Mock
		log       *eventLog
		ctrl      *chatui.Controller
		cancel    context.CancelFunc
		runErr    chan error
	)

	waitHandled := func(name string, n int) {
		Eventually(func() int { return log.count(name) }).Should(BeNumerically(">=", n))
	}

	bringReady := func() {
		transport.Push(fixtures.PDFProcessing()...)
		waitHandled("ready", 1)
		clk.Add(chatui.ReadyHoldDelay)
		waitHandled("overlay_fade", 1)
		clk.Add(chatui.OverlayFadeDelay)
		waitHandled("overlay_dismiss", 1)
	}

	BeforeEach(func() {
		transport = testutil.NewFakeTransport()
		view = testutil.NewRecordingView()
		clk = clock.NewMock()
		log = &eventLog{}

		opts := chatui.DefaultOptions()
		opts.Documents = []chatui.Document{{Name: "q3-report.pdf", Type: "pdf"}}
		ctrl = chatui.NewController(view, transport, opts,
			chatui.WithClock(clk),
			chatui.WithObserver(log.record),
		)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		runErr = make(chan error, 1)
		go func() { runErr <- ctrl.Run(ctx) }()
	})

	AfterEach(func() {
		cancel()
	})

	Describe("document processing", func() {
		It("requests processing on connect and tracks status on the overlay", func() {
			transport.Push(chatui.Connect{}, chatui.Status{Message: "Creating Vector Embeddings...", Icon: "🧠"})
			waitHandled("status", 1)

			Expect(transport.EmittedNames()).To(Equal([]string{chatui.EmitProcessFile}))
			page := view.Page()
			Expect(page.Overlay.Percent).To(Equal(70))
			Expect(page.Overlay.Label).To(Equal("Creating Vector Embeddings..."))
		})

		It("unlocks input only after the overlay has faded", func() {
			transport.Push(fixtures.PDFProcessing()...)
			waitHandled("ready", 1)
			Expect(ctrl.State().Processing).To(BeTrue())
			Expect(view.Page().Overlay.Percent).To(Equal(100))

			clk.Add(chatui.ReadyHoldDelay)
			waitHandled("overlay_fade", 1)
			Expect(ctrl.State().Processing).To(BeTrue())
			Expect(view.Page().Overlay.Fading).To(BeTrue())

			clk.Add(chatui.OverlayFadeDelay)
			waitHandled("overlay_dismiss", 1)
			Expect(ctrl.State().Processing).To(BeFalse())

			page := view.Page()
			Expect(page.Overlay.Hidden).To(BeTrue())
			Expect(page.Input.Enabled).To(BeTrue())
			Expect(page.Input.Placeholder).To(Equal("Ask about your PDF..."))
			Expect(page.Messages()).To(HaveLen(1))
			Expect(page.Messages()[0].Content).To(ContainSubstring("System Ready"))

			unlocked, _ := log.counters()
			Expect(unlocked).To(Equal(1))
		})

		It("pins the CSV preview above the history", func() {
			transport.Push(fixtures.CSVProcessing()...)
			waitHandled("ready", 1)
			clk.Add(chatui.ReadyHoldDelay)
			waitHandled("overlay_fade", 1)
			clk.Add(chatui.OverlayFadeDelay)
			waitHandled("overlay_dismiss", 1)

			page := view.Page()
			Expect(page.History[0].Kind).To(Equal(chatui.EntryPreview))
			Expect(page.History[0].Markup).To(ContainSubstring("<td>EU</td>"))
		})
	})

	Describe("chat turns", func() {
		It("ignores submissions while processing", func() {
			ctrl.Submit("too early")
			waitHandled("submit", 1)

			Expect(transport.Emitted()).To(BeEmpty())
			Expect(view.Page().Messages()).To(BeEmpty())
		})

		It("sends the question and commits the streamed answer", func() {
			bringReady()

			ctrl.Submit("  What was Q3 revenue?  ")
			waitHandled("submit", 1)
			Expect(transport.Emitted()).To(ContainElement(testutil.Emitted{
				Event:   chatui.EmitChatMessage,
				Payload: chatui.ChatMessagePayload{Message: "What was Q3 revenue?"},
			}))

			transport.Push(fixtures.StreamedAnswer("Revenue ", "grew ", "12%.")...)
			waitHandled("stream_end", 1)
			Expect(ctrl.State().Streaming).To(BeFalse())
			Expect(view.Page().Stream.Visible).To(BeTrue())

			clk.Add(chatui.StreamSettleDelay)
			waitHandled("stream_commit", 1)

			page := view.Page()
			msgs := page.Messages()
			Expect(msgs[len(msgs)-1].Role).To(Equal(chatui.RoleAssistant))
			Expect(msgs[len(msgs)-1].Content).To(HavePrefix("Revenue grew 12%."))
			Expect(msgs[len(msgs)-1].Content).To(ContainSubstring("q3-report.pdf p.4<br>q3-report.pdf p.7"))
			Expect(page.Stream.Visible).To(BeFalse())
			Expect(page.Traces()).To(HaveLen(1))
			Expect(page.Traces()[0].Sealed).To(BeTrue())
			Expect(page.Traces()[0].Markup).To(ContainSubstring("Ref #2"))

			_, settled := log.counters()
			Expect(settled).To(Equal(1))
		})

		It("raises an alert on server errors", func() {
			bringReady()
			ctrl.Submit("question")
			transport.Push(chatui.Error{Message: "timeout"})
			waitHandled("error", 1)

			Expect(view.Page().Alerts).To(Equal([]string{"Error: timeout"}))
			Expect(ctrl.State().AcceptsInput()).To(BeTrue())
		})
	})

	Describe("shutdown", func() {
		It("stops when the transport closes", func() {
			transport.Close()
			Eventually(runErr).Should(Receive(MatchError(chatui.ErrTransportClosed)))
		})

		It("stops when the context is cancelled", func() {
			cancel()
			Eventually(runErr).Should(Receive(MatchError(context.Canceled)))
		})
	})
})

var _ = Describe("Controller with a failing transport", func() {
	It("keeps running when an emit fails", func() {
		transport := mocks.NewMockTransport()
		transport.On("Emit", chatui.EmitProcessFile, chatui.ProcessFilePayload{}).Return(errors.New("broken pipe"))

		view := testutil.NewRecordingView()
		log := &eventLog{}
		ctrl := chatui.NewController(view, transport, chatui.DefaultOptions(),
			chatui.WithClock(clock.NewMock()),
			chatui.WithObserver(log.record),
		)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go ctrl.Run(ctx)

		transport.EventsCh <- chatui.Connect{}
		transport.EventsCh <- chatui.Status{Message: "Reading PDF...", Icon: "📄"}
		Eventually(func() int { return log.count("status") }).Should(Equal(1))

		Expect(view.Page().Overlay.Label).To(Equal("Reading PDF..."))
		transport.AssertExpectations(GinkgoT())
	})
})
