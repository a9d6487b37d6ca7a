package viz

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProgress_Clamped_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("fraction stays in (0, 1]", prop.ForAll(
		func(current, total int) bool {
			p := NewProgress(current, total)
			return p.Fraction > 0 && p.Fraction <= 1 && p.Percent >= 1 && p.Percent <= 100
		},
		gen.IntRange(-50, 200),
		gen.IntRange(-5, 100),
	))

	properties.Property("fraction is (current+1)/total in range", prop.ForAll(
		func(total, offset int) bool {
			current := offset % total
			p := NewProgress(current, total)
			return p.Step == current+1 && p.Fraction == float64(current+1)/float64(total)
		},
		gen.IntRange(1, 100),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
