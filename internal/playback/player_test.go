package playback

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

type frameLog struct {
	mu    sync.Mutex
	steps []int
}

func (f *frameLog) record(st State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, st.Step)
}

func (f *frameLog) snapshot() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.steps))
	copy(out, f.steps)
	return out
}

var _ = Describe("Player", func() {
	var (
		ctrl   *Controller
		frames *frameLog
	)

	BeforeEach(func() {
		var err error
		ctrl, err = NewController(builtinStore())
		Expect(err).NotTo(HaveOccurred())
		frames = &frameLog{}
	})

	newPlayer := func(interval time.Duration) *Player {
		p := NewPlayer(ctrl, interval, frames.record, zerolog.Nop())
		DeferCleanup(p.Close)
		return p
	}

	It("plays to the final step and releases its ticker", func() {
		p := newPlayer(5 * time.Millisecond)
		Expect(p.Start(context.Background())).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Expect(p.Wait(ctx)).To(Succeed())

		Expect(frames.snapshot()).To(Equal([]int{0, 1, 2, 3, 4, 5, 6}))
		st := p.State()
		Expect(st.Running).To(BeFalse())
		Expect(st.AtEnd()).To(BeTrue())
	})

	It("keeps a single ticker across restarts", func() {
		p := newPlayer(5 * time.Millisecond)
		Expect(p.Start(context.Background())).To(Succeed())
		Expect(p.Start(context.Background())).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Expect(p.Wait(ctx)).To(Succeed())

		got := frames.snapshot()
		last := 0
		for i, s := range got {
			if s == 0 {
				last = i
			}
		}
		Expect(got[last:]).To(Equal([]int{0, 1, 2, 3, 4, 5, 6}))
	})

	It("halts immediately when a scenario is selected", func() {
		p := newPlayer(20 * time.Millisecond)
		Expect(p.Start(context.Background())).To(Succeed())
		Eventually(func() int { return p.State().Step }).Should(BeNumerically(">=", 1))

		Expect(p.Select(3)).To(Succeed())
		st := p.State()
		Expect(st.Running).To(BeFalse())
		Expect(st.Step).To(Equal(0))
		Expect(st.Scenario).To(Equal(3))

		n := len(frames.snapshot())
		Consistently(func() int { return len(frames.snapshot()) }, 100*time.Millisecond).Should(Equal(n))
	})

	It("rejects an out-of-range selection without stopping", func() {
		p := newPlayer(time.Hour)
		Expect(p.Start(context.Background())).To(Succeed())
		Expect(p.Select(99)).NotTo(Succeed())
		Expect(p.State().Running).To(BeTrue())
	})

	It("stops when the context is cancelled", func() {
		p := newPlayer(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		Expect(p.Start(ctx)).To(Succeed())
		cancel()

		wctx, wcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer wcancel()
		Expect(p.Wait(wctx)).To(Succeed())
		Expect(p.State().Running).To(BeFalse())
	})

	It("refuses to start once closed", func() {
		p := newPlayer(time.Hour)
		Expect(p.Start(context.Background())).To(Succeed())
		Expect(p.Close()).To(Succeed())
		Expect(p.State().Running).To(BeFalse())
		Expect(p.Start(context.Background())).To(MatchError(ErrClosed))
		Expect(p.Select(0)).To(MatchError(ErrClosed))
	})

	It("stops idempotently", func() {
		p := newPlayer(time.Hour)
		p.Stop()
		Expect(p.Start(context.Background())).To(Succeed())
		p.Stop()
		p.Stop()
		Expect(p.State().Running).To(BeFalse())
		Expect(frames.snapshot()).To(Equal([]int{0}))
	})
})
