package scenario

import "strings"

// Region identifies one visualized area of the event loop.
type Region string

const (
	CallStack      Region = "callStack"
	WebAPIs        Region = "webAPIs"
	CallbackQueue  Region = "callbackQueue"
	MicrotaskQueue Region = "microtaskQueue"
	Script         Region = "script"
	EventLoop      Region = "eventLoop"
	Output         Region = "output"
)

// Regions lists the list-valued regions in display order.
var Regions = []Region{CallStack, WebAPIs, CallbackQueue, Script, MicrotaskQueue}

var regionTitles = map[Region]string{
	CallStack:      "Call Stack",
	WebAPIs:        "Web APIs",
	CallbackQueue:  "Callback Queue",
	MicrotaskQueue: "Microtask Queue",
	Script:         "Script",
	EventLoop:      "Event Loop",
	Output:         "Output",
}

// Title returns the display name of the region.
func (r Region) Title() string {
	if t, ok := regionTitles[r]; ok {
		return t
	}
	return string(r)
}

// Valid reports whether r names a known region.
func (r Region) Valid() bool {
	_, ok := regionTitles[r]
	return ok
}

// Step is one authored frame of a walkthrough.
//
// MicrotaskQueue is nil when the frame does not show the region at all,
// which is different from an empty queue.
type Step struct {
	Title          string   `yaml:"title" json:"title"`
	Description    string   `yaml:"description" json:"description"`
	CallStack      []string `yaml:"call_stack" json:"callStack"`
	WebAPIs        []string `yaml:"web_apis" json:"webAPIs"`
	CallbackQueue  []string `yaml:"callback_queue" json:"callbackQueue"`
	MicrotaskQueue []string `yaml:"microtask_queue,omitempty" json:"microtaskQueue,omitempty"`
	Script         []string `yaml:"script" json:"script"`
	Output         []string `yaml:"output" json:"output"`
	Highlight      Region   `yaml:"highlight,omitempty" json:"highlight,omitempty"`
}

// Items returns the list shown for region r and whether the step carries it.
func (s Step) Items(r Region) ([]string, bool) {
	switch r {
	case CallStack:
		return s.CallStack, true
	case WebAPIs:
		return s.WebAPIs, true
	case CallbackQueue:
		return s.CallbackQueue, true
	case MicrotaskQueue:
		return s.MicrotaskQueue, s.MicrotaskQueue != nil
	case Script:
		return s.Script, true
	case Output:
		return s.Output, true
	}
	return nil, false
}

// Highlighted reports whether the step emphasizes region r.
func (s Step) Highlighted(r Region) bool {
	return s.Highlight == r
}

func (s Step) clone() Step {
	c := s
	c.CallStack = cloneLines(s.CallStack)
	c.WebAPIs = cloneLines(s.WebAPIs)
	c.CallbackQueue = cloneLines(s.CallbackQueue)
	c.MicrotaskQueue = cloneLines(s.MicrotaskQueue)
	c.Script = cloneLines(s.Script)
	c.Output = cloneLines(s.Output)
	return c
}

// Scenario is a named code listing and its walkthrough.
type Scenario struct {
	Name  string   `yaml:"name" json:"name"`
	Code  []string `yaml:"code" json:"code"`
	Steps []Step   `yaml:"steps" json:"steps"`
}

// Len returns the number of steps.
func (s Scenario) Len() int { return len(s.Steps) }

// Last returns the index of the final step.
func (s Scenario) Last() int { return len(s.Steps) - 1 }

// Source joins the code listing into a single program text.
func (s Scenario) Source() string {
	return strings.Join(s.Code, "\n")
}

// FinalOutput returns the cumulative output of the last step.
func (s Scenario) FinalOutput() []string {
	if len(s.Steps) == 0 {
		return nil
	}
	return cloneLines(s.Steps[len(s.Steps)-1].Output)
}

// Clone returns a deep copy.
func (s Scenario) Clone() Scenario {
	c := Scenario{Name: s.Name, Code: cloneLines(s.Code)}
	if s.Steps != nil {
		c.Steps = make([]Step, len(s.Steps))
		for i, st := range s.Steps {
			c.Steps[i] = st.clone()
		}
	}
	return c
}

func cloneLines(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
