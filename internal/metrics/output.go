package metrics

import "github.com/san-kum/loopviz/internal/scenario"

// OutputLines is the length of the output at the last observed step.
type OutputLines struct {
	lines int
}

func NewOutputLines() *OutputLines { return &OutputLines{} }

func (o *OutputLines) Name() string { return "output_lines" }

func (o *OutputLines) Observe(step scenario.Step, _ int) { o.lines = len(step.Output) }

func (o *OutputLines) Value() float64 { return float64(o.lines) }

func (o *OutputLines) Reset() { o.lines = 0 }

// HighlightCount counts steps that emphasize a region.
type HighlightCount struct {
	name   string
	region scenario.Region
	count  int
}

func NewHighlightCount(region scenario.Region) *HighlightCount {
	return &HighlightCount{
		name:   "highlight_" + string(region),
		region: region,
	}
}

func (h *HighlightCount) Name() string { return h.name }

func (h *HighlightCount) Observe(step scenario.Step, _ int) {
	if step.Highlighted(h.region) {
		h.count++
	}
}

func (h *HighlightCount) Value() float64 { return float64(h.count) }

func (h *HighlightCount) Reset() { h.count = 0 }

// MicrotaskShare is the fraction of steps with a non-empty microtask queue.
type MicrotaskShare struct {
	busy    int
	samples int
}

func NewMicrotaskShare() *MicrotaskShare { return &MicrotaskShare{} }

func (m *MicrotaskShare) Name() string { return "microtask_share" }

func (m *MicrotaskShare) Observe(step scenario.Step, _ int) {
	m.samples++
	if len(step.MicrotaskQueue) > 0 {
		m.busy++
	}
}

func (m *MicrotaskShare) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.busy) / float64(m.samples)
}

func (m *MicrotaskShare) Reset() {
	m.busy = 0
	m.samples = 0
}
