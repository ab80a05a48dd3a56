package chatui

import (
	"sort"
	"time"
)

type sentEmit struct {
	event   string
	payload any
}

type timer struct {
	due time.Duration
	seq int
	ev  Event
}

// sim drives Reduce the way the controller does, with virtual time
type sim struct {
	opts  Options
	state State
	page  *Page
	ops   []ViewOp
	emits []sentEmit

	now    time.Duration
	seq    int
	timers []timer
}

func newSim(opts Options) *sim {
	return &sim{opts: opts, state: NewState(), page: NewPage()}
}

func (s *sim) feed(events ...Event) *sim {
	for _, ev := range events {
		next, effects := Reduce(s.opts, s.state, ev)
		s.state = next
		for _, eff := range effects {
			switch eff := eff.(type) {
			case Emit:
				s.emits = append(s.emits, sentEmit{event: eff.Event, payload: eff.Payload})
			case After:
				s.seq++
				s.timers = append(s.timers, timer{due: s.now + eff.Delay, seq: s.seq, ev: eff.Event})
			case ViewOp:
				s.ops = append(s.ops, eff)
				s.page.Apply(eff)
			}
		}
	}
	return s
}

// advance fires every timer due within d, in due order
func (s *sim) advance(d time.Duration) *sim {
	until := s.now + d
	for {
		sort.SliceStable(s.timers, func(i, j int) bool {
			if s.timers[i].due == s.timers[j].due {
				return s.timers[i].seq < s.timers[j].seq
			}
			return s.timers[i].due < s.timers[j].due
		})
		if len(s.timers) == 0 || s.timers[0].due > until {
			break
		}
		t := s.timers[0]
		s.timers = s.timers[1:]
		s.now = t.due
		s.feed(t.ev)
	}
	s.now = until
	return s
}

// settle runs until no timers remain
func (s *sim) settle() *sim {
	return s.advance(time.Hour)
}

// ready brings the page to the interactive state
func (s *sim) ready(preview string) *sim {
	return s.feed(Connect{}, Ready{Preview: preview}).settle()
}

func (s *sim) emitted(event string) []any {
	var out []any
	for _, e := range s.emits {
		if e.event == event {
			out = append(out, e.payload)
		}
	}
	return out
}
