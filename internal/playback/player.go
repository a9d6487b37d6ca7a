package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FrameFunc receives every state the Player shows, in order. It runs on the
// Player's goroutine and must not call back into the Player.
type FrameFunc func(State)

// Player drives a Controller from a time.Ticker. At most one ticker
// goroutine exists at a time and it is released on every exit path.
type Player struct {
	// life serializes Start/Stop/Select/Close so that waiting for the
	// ticker goroutine never happens under mu.
	life sync.Mutex
	mu   sync.Mutex

	ctrl     *Controller
	interval time.Duration
	onFrame  FrameFunc
	log      zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
	closed bool
}

// NewPlayer wraps ctrl. A non-positive interval falls back to
// DefaultInterval.
func NewPlayer(ctrl *Controller, interval time.Duration, onFrame FrameFunc, log zerolog.Logger) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if onFrame == nil {
		onFrame = func(State) {}
	}
	return &Player{ctrl: ctrl, interval: interval, onFrame: onFrame, log: log}
}

// Start cancels any running ticker, rewinds to step 0 and begins playback.
// The step-0 frame is delivered before Start returns.
func (p *Player) Start(ctx context.Context) error {
	p.life.Lock()
	defer p.life.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.release()

	p.mu.Lock()
	lease := p.ctrl.Start()
	st := p.ctrl.State()
	p.mu.Unlock()

	p.onFrame(st)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel, p.done = cancel, done
	go p.loop(runCtx, lease, done)
	p.log.Debug().Dur("interval", p.interval).Msg("ticker acquired")
	return nil
}

// Select stops playback and switches scenario. An out-of-range index is
// rejected without touching the running ticker.
func (p *Player) Select(index int) error {
	p.life.Lock()
	defer p.life.Unlock()
	if p.closed {
		return ErrClosed
	}

	p.mu.Lock()
	err := p.ctrl.Select(index)
	p.mu.Unlock()
	if err != nil {
		return err
	}
	p.release()
	return nil
}

// Stop halts playback and waits for the ticker goroutine to exit.
func (p *Player) Stop() {
	p.life.Lock()
	defer p.life.Unlock()
	p.mu.Lock()
	p.ctrl.Stop()
	p.mu.Unlock()
	p.release()
}

// Wait blocks until the current run ends on its own, is stopped, or ctx is
// done.
func (p *Player) Wait(ctx context.Context) error {
	p.life.Lock()
	done := p.done
	p.life.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot of the controller.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.State()
}

// Close stops playback for good.
func (p *Player) Close() error {
	p.life.Lock()
	defer p.life.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.mu.Lock()
	p.ctrl.Stop()
	p.mu.Unlock()
	p.release()
	return nil
}

// release cancels the ticker goroutine and waits for it. Callers hold life.
func (p *Player) release() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
	p.log.Debug().Msg("ticker released")
}

func (p *Player) loop(ctx context.Context, lease Lease, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			if p.ctrl.Lease() == lease {
				p.ctrl.Stop()
			}
			p.mu.Unlock()
			return
		case <-t.C:
		}

		p.mu.Lock()
		if ctx.Err() != nil {
			p.mu.Unlock()
			return
		}
		advanced := p.ctrl.Tick(lease)
		st := p.ctrl.State()
		live := p.ctrl.Lease() == lease
		p.mu.Unlock()

		if advanced {
			p.onFrame(st)
		}
		if !live {
			return
		}
	}
}
