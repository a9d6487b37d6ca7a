package metrics

import "github.com/san-kum/loopviz/internal/scenario"

type StepCount struct {
	steps int
}

func NewStepCount() *StepCount { return &StepCount{} }

func (s *StepCount) Name() string { return "steps" }

func (s *StepCount) Observe(scenario.Step, int) { s.steps++ }

func (s *StepCount) Value() float64 { return float64(s.steps) }

func (s *StepCount) Reset() { s.steps = 0 }

// PeakDepth is the largest number of items region held at any step.
type PeakDepth struct {
	name   string
	region scenario.Region
	peak   int
}

func NewPeakDepth(region scenario.Region) *PeakDepth {
	return &PeakDepth{
		name:   "peak_" + string(region),
		region: region,
	}
}

func (p *PeakDepth) Name() string { return p.name }

func (p *PeakDepth) Observe(step scenario.Step, _ int) {
	items, ok := step.Items(p.region)
	if !ok {
		return
	}
	if len(items) > p.peak {
		p.peak = len(items)
	}
}

func (p *PeakDepth) Value() float64 { return float64(p.peak) }

func (p *PeakDepth) Reset() { p.peak = 0 }
