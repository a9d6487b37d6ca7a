package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/loopviz/internal/scenario"
)

// GlossaryEntry describes one region in the sidebar.
type GlossaryEntry struct {
	Region      scenario.Region
	Description string
}

// Glossary is the static sidebar text.
var Glossary = []GlossaryEntry{
	{scenario.CallStack, "Holds the functions being executed. Synchronous code is pushed onto the stack and runs immediately."},
	{scenario.WebAPIs, "Host-provided asynchronous operations such as timers, DOM events and HTTP requests. They run outside the JavaScript engine."},
	{scenario.CallbackQueue, "Completed asynchronous callbacks, like setTimeout handlers, waiting for the call stack to empty."},
	{scenario.MicrotaskQueue, "Promise reactions and queueMicrotask callbacks. Drained completely before the next callback queue task."},
	{scenario.Script, "The top-level code loaded and executed by the JavaScript engine."},
	{scenario.EventLoop, "Checks whether the call stack is empty and, if so, moves the next microtask or callback onto it."},
}

const (
	minWidth      = 60
	progressWidth = 30
	eventLoopIdle = "waiting"
	eventLoopBusy = "⟳ checking the stack and queues"
)

// Render draws a frame as themed lipgloss panels fitting width columns.
func Render(f Frame, t Theme, width int) string {
	s := newStyles(t)
	if width < minWidth {
		width = minWidth
	}

	var b strings.Builder
	b.WriteString(s.title.Render(f.Title) + "\n")
	b.WriteString(s.text.Width(width).Render(f.Description) + "\n\n")

	var top, bottom []RegionView
	for _, rv := range f.Regions {
		switch rv.Region {
		case scenario.Script, scenario.MicrotaskQueue:
			bottom = append(bottom, rv)
		default:
			top = append(top, rv)
		}
	}
	b.WriteString(s.row(top, width) + "\n")
	if len(bottom) > 0 {
		b.WriteString(s.row(bottom, width) + "\n")
	}

	loop := s.muted.Render(eventLoopIdle)
	if f.EventLoop {
		loop = s.selected.Render(eventLoopBusy)
	}
	b.WriteString(s.BoxWithTitle(scenario.EventLoop.Title(), loop, width-4, f.EventLoop) + "\n")
	b.WriteString(s.BoxWithTitle(scenario.Output.Title(), strings.Join(f.OutputLines(), "\n"), width-4, false) + "\n")

	b.WriteString(s.ProgressBar(f.Progress.Fraction, progressWidth) + " " + s.muted.Render(f.Progress.String()))
	return b.String()
}

func (s styles) regionBox(rv RegionView, width int) string {
	lines := rv.Lines()
	if rv.Empty {
		return s.BoxWithTitle(rv.Title, s.muted.Render(lines[0]), width, rv.Highlighted)
	}
	items := make([]string, len(lines))
	for i, l := range lines {
		items[i] = "• " + l
	}
	return s.BoxWithTitle(rv.Title, strings.Join(items, "\n"), width, rv.Highlighted)
}

// row lays region boxes side by side with equal widths. The 4 columns per
// box cover its border and padding.
func (s styles) row(regions []RegionView, width int) string {
	if len(regions) == 0 {
		return ""
	}
	w := width/len(regions) - 4
	cells := make([]string, len(regions))
	for i, rv := range regions {
		cells[i] = s.regionBox(rv, w)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// Sidebar renders the glossary column.
func Sidebar(t Theme, width int) string {
	s := newStyles(t)
	var b strings.Builder
	b.WriteString(s.heading.Render("Event Loop Descriptions") + "\n\n")
	for _, e := range Glossary {
		b.WriteString(s.boxTitle.Render(e.Region.Title()) + "\n")
		b.WriteString(s.muted.Width(width).Render(e.Description) + "\n\n")
	}
	return s.sidebar.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// CodeListing renders a scenario's source with line numbers.
func CodeListing(sc scenario.Scenario, t Theme) string {
	s := newStyles(t)
	lines := make([]string, len(sc.Code))
	for i, l := range sc.Code {
		lines[i] = s.muted.Render(fmt.Sprintf("%2d ", i+1)) + l
	}
	return s.code.Render(strings.Join(lines, "\n"))
}

// RenderPlain writes a frame as uncolored text for pipes and logs.
func RenderPlain(f Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s: %s ==\n", f.Scenario, f.Title)
	b.WriteString(f.Description + "\n")
	for _, rv := range f.Regions {
		marker := ""
		if rv.Highlighted {
			marker = " *"
		}
		fmt.Fprintf(&b, "%s%s: %s\n", rv.Title, marker, strings.Join(rv.Lines(), ", "))
	}
	loop := eventLoopIdle
	if f.EventLoop {
		loop = "checking"
	}
	fmt.Fprintf(&b, "%s: %s\n", scenario.EventLoop.Title(), loop)
	fmt.Fprintf(&b, "%s: %s\n", scenario.Output.Title(), strings.Join(f.OutputLines(), ", "))
	b.WriteString(f.Progress.String() + "\n")
	return b.String()
}
