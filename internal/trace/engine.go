package trace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"
)

// DefaultMaxTasks bounds the macrotasks a single run may execute.
const DefaultMaxTasks = 10000

// EventKind classifies a trace event.
type EventKind string

const (
	EventLog            EventKind = "log"
	EventTimerScheduled EventKind = "timer-scheduled"
	EventTimerFired     EventKind = "timer-fired"
	EventTimerCleared   EventKind = "timer-cleared"
	EventError          EventKind = "error"
)

// Event is one observable action of the loop at a virtual time.
type Event struct {
	Seq     int           `json:"seq"`
	At      time.Duration `json:"at"`
	Kind    EventKind     `json:"kind"`
	TimerID int64         `json:"timerId,omitempty"`
	Delay   time.Duration `json:"delay,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// Result is the outcome of a run.
type Result struct {
	Output  []string
	Events  []Event
	Errors  []string
	Tasks   int
	Elapsed time.Duration
}

// Options tunes a run.
type Options struct {
	MaxTasks int
	Logger   zerolog.Logger
}

// prelude installs what goja does not provide natively.
const prelude = `globalThis.queueMicrotask = function (fn) {
	Promise.resolve().then(function () { fn(); });
};`

type engine struct {
	vm     *goja.Runtime
	timers *timers
	result *Result
	log    zerolog.Logger
}

// Run executes source on a fresh runtime and drives the event loop until no
// timers remain.
//
// Uncaught exceptions in the script or in callbacks are recorded in
// Result.Errors and the loop keeps going, as a browser would. Run only
// fails for code that does not compile, a cancelled context or an exhausted
// task budget; the partial result is returned alongside the latter two.
func Run(ctx context.Context, source string, opts Options) (*Result, error) {
	if opts.MaxTasks <= 0 {
		opts.MaxTasks = DefaultMaxTasks
	}

	prog, err := goja.Compile("scenario.js", source, false)
	if err != nil {
		return nil, &ScriptError{Message: err.Error(), Wrapped: err}
	}

	e := &engine{
		vm:     goja.New(),
		timers: newTimers(),
		result: &Result{},
		log:    opts.Logger,
	}
	if err := e.install(); err != nil {
		return nil, fmt.Errorf("trace: install globals: %w", err)
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ErrInterrupted)
		case <-stop:
		}
	}()

	if _, err := e.vm.RunProgram(prog); err != nil {
		if ierr := interrupted(err); ierr != nil {
			return e.result, ierr
		}
		e.uncaught(err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return e.result, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		t, ok := e.timers.next()
		if !ok {
			break
		}
		if e.result.Tasks >= opts.MaxTasks {
			return e.result, fmt.Errorf("%w: %d tasks, %d timers pending", ErrTaskBudget, e.result.Tasks, e.timers.pending()+1)
		}
		e.result.Tasks++
		e.result.Elapsed = e.timers.now
		e.record(Event{Kind: EventTimerFired, TimerID: t.id, Delay: t.interval})

		if _, err := t.fn(goja.Undefined(), t.args...); err != nil {
			if ierr := interrupted(err); ierr != nil {
				return e.result, ierr
			}
			e.uncaught(err)
		}
		if t.repeat && !t.cleared {
			e.timers.reschedule(t)
		}
	}

	e.log.Debug().Int("tasks", e.result.Tasks).Dur("elapsed", e.result.Elapsed).Int("lines", len(e.result.Output)).Msg("trace finished")
	return e.result, nil
}

func interrupted(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		return fmt.Errorf("%w: %s", ErrInterrupted, ie.Error())
	}
	return nil
}

func (e *engine) record(ev Event) {
	ev.Seq = len(e.result.Events)
	ev.At = e.timers.now
	e.result.Events = append(e.result.Events, ev)
}

func (e *engine) uncaught(err error) {
	msg := err.Error()
	var ex *goja.Exception
	if errors.As(err, &ex) {
		msg = ex.Value().String()
	}
	e.result.Errors = append(e.result.Errors, msg)
	e.record(Event{Kind: EventError, Text: msg})
	e.log.Warn().Str("error", msg).Msg("uncaught exception")
}

func (e *engine) install() error {
	console := e.vm.NewObject()
	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		if err := console.Set(name, e.consoleLog); err != nil {
			return err
		}
	}
	globals := map[string]any{
		"console":       console,
		"setTimeout":    e.setTimer(false),
		"setInterval":   e.setTimer(true),
		"clearTimeout":  e.clearTimer,
		"clearInterval": e.clearTimer,
	}
	for name, v := range globals {
		if err := e.vm.Set(name, v); err != nil {
			return err
		}
	}
	_, err := e.vm.RunString(prelude)
	return err
}

func (e *engine) consoleLog(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	line := strings.Join(parts, " ")
	e.result.Output = append(e.result.Output, line)
	e.record(Event{Kind: EventLog, Text: line})
	return goja.Undefined()
}

func (e *engine) setTimer(repeat bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(e.vm.NewTypeError("callback must be a function"))
		}
		var delay time.Duration
		if d := call.Argument(1); !goja.IsUndefined(d) && !goja.IsNull(d) {
			delay = time.Duration(d.ToInteger()) * time.Millisecond
		}
		var args []goja.Value
		if len(call.Arguments) > 2 {
			args = append(args, call.Arguments[2:]...)
		}
		t := e.timers.schedule(fn, delay, repeat, args)
		e.record(Event{Kind: EventTimerScheduled, TimerID: t.id, Delay: t.interval})
		return e.vm.ToValue(t.id)
	}
}

func (e *engine) clearTimer(call goja.FunctionCall) goja.Value {
	id := call.Argument(0)
	if goja.IsUndefined(id) || goja.IsNull(id) {
		return goja.Undefined()
	}
	if e.timers.clear(id.ToInteger()) {
		e.record(Event{Kind: EventTimerCleared, TimerID: id.ToInteger()})
	}
	return goja.Undefined()
}
