package trace

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/loopviz/internal/scenario"
)

// Report compares a scenario's authored final output with a traced run.
type Report struct {
	Scenario string
	Authored []string
	Traced   []string
	Errors   []string
	// Mismatch is the first differing line index, or -1 when both agree.
	Mismatch int
	Result   *Result
}

// OK reports whether the trace reproduced the authored output without
// uncaught errors.
func (r *Report) OK() bool {
	return r.Mismatch < 0 && len(r.Errors) == 0
}

// Summary describes the outcome in one line.
func (r *Report) Summary() string {
	switch {
	case len(r.Errors) > 0:
		return fmt.Sprintf("uncaught: %s", r.Errors[0])
	case r.Mismatch < 0:
		return fmt.Sprintf("%d lines match", len(r.Traced))
	}
	return fmt.Sprintf("line %d: authored %q, traced %q", r.Mismatch+1, lineAt(r.Authored, r.Mismatch), lineAt(r.Traced, r.Mismatch))
}

// Verify runs sc.Code and compares the printed lines with sc.FinalOutput().
func Verify(ctx context.Context, sc scenario.Scenario, opts Options) (*Report, error) {
	res, err := Run(ctx, sc.Source(), opts)
	if err != nil {
		return nil, fmt.Errorf("trace %q: %w", sc.Name, err)
	}
	authored := sc.FinalOutput()
	rep := &Report{
		Scenario: sc.Name,
		Authored: authored,
		Traced:   res.Output,
		Errors:   res.Errors,
		Mismatch: firstMismatch(authored, res.Output),
		Result:   res,
	}
	opts.Logger.Info().Str("scenario", sc.Name).Bool("ok", rep.OK()).Str("summary", rep.Summary()).Msg("verified")
	return rep, nil
}

// VerifyAll verifies every scenario on its own runtime concurrently.
// Reports and errors are indexed like scenarios.
func VerifyAll(ctx context.Context, scenarios []scenario.Scenario, opts Options) ([]*Report, []error) {
	reports := make([]*Report, len(scenarios))
	errs := make([]error, len(scenarios))

	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			reports[idx], errs[idx] = Verify(ctx, scenarios[idx], opts)
		}(i)
	}
	wg.Wait()

	return reports, errs
}

func firstMismatch(a, b []string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return "<none>"
	}
	return lines[i]
}
