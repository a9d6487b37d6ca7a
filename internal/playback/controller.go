package playback

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/loopviz/internal/scenario"
)

// DefaultInterval is the time between two playback ticks.
const DefaultInterval = 2000 * time.Millisecond

// Lease identifies the single timer allowed to drive ticks. The zero Lease
// is never live.
type Lease uint64

// State is an immutable snapshot of the controller.
type State struct {
	Scenario int
	Step     int
	Total    int
	Running  bool
}

// AtEnd reports whether the snapshot shows the final step.
func (s State) AtEnd() bool {
	return s.Step >= s.Total-1
}

// Controller owns the (selected scenario, current step, running) triple.
// It is not safe for concurrent use; Player adds locking.
type Controller struct {
	store    *scenario.Store
	selected int
	current  int
	running  bool
	sc       scenario.Scenario
	lease    Lease
	issued   Lease
	log      zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// NewController returns a stopped controller with the first scenario
// selected.
func NewController(store *scenario.Store, opts ...Option) (*Controller, error) {
	if store == nil || store.Count() == 0 {
		return nil, ErrEmptyStore
	}
	c := &Controller{store: store, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	sc, err := store.Get(0)
	if err != nil {
		return nil, err
	}
	c.sc = sc
	return c, nil
}

// Select switches to the scenario at index. An out-of-range index is
// rejected and the current state is kept.
func (c *Controller) Select(index int) error {
	sc, err := c.store.Get(index)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	c.halt("select")
	c.selected = index
	c.sc = sc
	c.current = 0
	c.log.Info().Int("scenario", index).Str("name", sc.Name).Msg("scenario selected")
	return nil
}

// Start rewinds to step 0, begins playback and returns the lease of the
// only timer that may tick from now on. Any earlier lease is revoked.
func (c *Controller) Start() Lease {
	c.revoke("restart")
	c.current = 0
	c.running = true
	c.issued++
	c.lease = c.issued
	c.log.Info().Int("scenario", c.selected).Uint64("lease", uint64(c.lease)).Msg("playback started")
	return c.lease
}

// Tick advances one step on behalf of lease. It returns true when the step
// index changed. Ticks from a revoked lease or while stopped are ignored.
// Reaching the final step, or ticking while already on it, stops playback
// and revokes the lease in the same call.
func (c *Controller) Tick(lease Lease) bool {
	if !c.running || lease == 0 || lease != c.lease {
		c.log.Debug().Uint64("lease", uint64(lease)).Msg("stale tick dropped")
		return false
	}
	last := c.sc.Last()
	if c.current >= last {
		c.halt("end")
		return false
	}
	c.current++
	c.log.Debug().Int("step", c.current).Msg("tick")
	if c.current >= last {
		c.halt("end")
	}
	return true
}

// Stop halts playback. It is idempotent.
func (c *Controller) Stop() {
	c.halt("stop")
}

// Step moves the step index by delta while stopped, clamped to the valid
// range. It reports whether the index changed.
func (c *Controller) Step(delta int) bool {
	if c.running {
		return false
	}
	return c.seek(c.current + delta)
}

// Seek jumps to index while stopped, clamped to the valid range.
func (c *Controller) Seek(index int) bool {
	if c.running {
		return false
	}
	return c.seek(index)
}

func (c *Controller) seek(index int) bool {
	if index < 0 {
		index = 0
	}
	if last := c.sc.Last(); index > last {
		index = last
	}
	if index == c.current {
		return false
	}
	c.current = index
	return true
}

// State returns a snapshot.
func (c *Controller) State() State {
	return State{
		Scenario: c.selected,
		Step:     c.current,
		Total:    c.sc.Len(),
		Running:  c.running,
	}
}

// Running reports whether playback is active.
func (c *Controller) Running() bool { return c.running }

// Lease returns the live lease, or zero when no timer may tick.
func (c *Controller) Lease() Lease { return c.lease }

// Scenario returns the selected scenario.
func (c *Controller) Scenario() scenario.Scenario { return c.sc }

// CurrentStep returns the step at the current index.
func (c *Controller) CurrentStep() scenario.Step { return c.sc.Steps[c.current] }

// Store returns the backing scenario store.
func (c *Controller) Store() *scenario.Store { return c.store }

func (c *Controller) halt(reason string) {
	wasRunning := c.running
	c.running = false
	c.revoke(reason)
	if wasRunning {
		c.log.Info().Int("scenario", c.selected).Int("step", c.current).Str("reason", reason).Msg("playback stopped")
	}
}

func (c *Controller) revoke(reason string) {
	if c.lease == 0 {
		return
	}
	c.log.Debug().Uint64("lease", uint64(c.lease)).Str("reason", reason).Msg("lease revoked")
	c.lease = 0
}
