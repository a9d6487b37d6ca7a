// Package metrics summarizes walkthroughs step by step.
package metrics

import "github.com/san-kum/loopviz/internal/scenario"

// Metric accumulates one number over the steps of a scenario.
type Metric interface {
	Name() string
	Observe(step scenario.Step, index int)
	Value() float64
	Reset()
}

// Result is a named metric value.
type Result struct {
	Name  string
	Value float64
}

// Defaults returns the metric set used by the stats command.
func Defaults() []Metric {
	ms := []Metric{NewStepCount()}
	for _, r := range scenario.Regions {
		ms = append(ms, NewPeakDepth(r))
	}
	return append(ms,
		NewOutputLines(),
		NewHighlightCount(scenario.EventLoop),
		NewMicrotaskShare(),
	)
}

// Collect feeds every step of sc through ms, or Defaults() when ms is
// empty, and returns the values in order.
func Collect(sc scenario.Scenario, ms ...Metric) []Result {
	if len(ms) == 0 {
		ms = Defaults()
	}
	for _, m := range ms {
		m.Reset()
	}
	for i, st := range sc.Steps {
		for _, m := range ms {
			m.Observe(st, i)
		}
	}
	out := make([]Result, len(ms))
	for i, m := range ms {
		out[i] = Result{Name: m.Name(), Value: m.Value()}
	}
	return out
}

// Depths returns the item count of region r at every step, for charting.
func Depths(sc scenario.Scenario, r scenario.Region) []float64 {
	out := make([]float64, len(sc.Steps))
	for i, st := range sc.Steps {
		items, _ := st.Items(r)
		out[i] = float64(len(items))
	}
	return out
}
