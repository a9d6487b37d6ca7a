package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/loopviz/internal/playback"
	"github.com/san-kum/loopviz/internal/scenario"
)

const (
	NoItems       = "No items"
	NoOutput      = "No output"
	NoTitle       = "No title"
	NoDescription = "No description"
)

// RegionView is one boxed list on screen.
type RegionView struct {
	Region      scenario.Region
	Title       string
	Items       []string
	Empty       bool
	Highlighted bool
}

// Lines returns the items, or the placeholder when there are none.
func (v RegionView) Lines() []string {
	if v.Empty {
		return []string{NoItems}
	}
	return v.Items
}

// Progress is the position readout under the step display.
type Progress struct {
	Step     int // 1-based
	Total    int
	Fraction float64
	Percent  int
}

func (p Progress) String() string {
	return fmt.Sprintf("Step %d of %d — %d%% Complete", p.Step, p.Total, p.Percent)
}

// NewProgress computes the readout for a 0-based step. Fraction stays in
// (0, 1] for any input with total > 0.
func NewProgress(current, total int) Progress {
	if total < 1 {
		total = 1
	}
	if current < 0 {
		current = 0
	}
	if current > total-1 {
		current = total - 1
	}
	f := float64(current+1) / float64(total)
	return Progress{
		Step:     current + 1,
		Total:    total,
		Fraction: f,
		Percent:  int(math.Round(f * 100)),
	}
}

// Frame is everything drawn for one (scenario, step) pair.
type Frame struct {
	Scenario    string
	Title       string
	Description string
	Regions     []RegionView
	EventLoop   bool
	Output      []string
	Running     bool
	Progress    Progress
}

// OutputLines returns the output, or the placeholder when nothing printed yet.
func (f Frame) OutputLines() []string {
	if len(f.Output) == 0 {
		return []string{NoOutput}
	}
	return f.Output
}

// Project maps a controller state onto a frame. It never mutates sc.
func Project(sc scenario.Scenario, st playback.State) Frame {
	f := Frame{
		Scenario:    sc.Name,
		Title:       NoTitle,
		Description: NoDescription,
		Running:     st.Running,
		Progress:    NewProgress(st.Step, len(sc.Steps)),
	}
	if st.Step < 0 || st.Step >= len(sc.Steps) {
		for _, r := range scenario.Regions {
			if r != scenario.MicrotaskQueue {
				f.Regions = append(f.Regions, RegionView{Region: r, Title: r.Title(), Empty: true})
			}
		}
		return f
	}

	step := sc.Steps[st.Step]
	if step.Title != "" {
		f.Title = step.Title
	}
	if step.Description != "" {
		f.Description = step.Description
	}
	for _, r := range scenario.Regions {
		items, ok := step.Items(r)
		if !ok {
			continue
		}
		f.Regions = append(f.Regions, RegionView{
			Region:      r,
			Title:       r.Title(),
			Items:       append([]string(nil), items...),
			Empty:       len(items) == 0,
			Highlighted: step.Highlighted(r),
		})
	}
	f.EventLoop = step.Highlighted(scenario.EventLoop)
	f.Output = append([]string(nil), step.Output...)
	return f
}
