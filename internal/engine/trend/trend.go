// Package trend classifies a metric's recent direction by comparing a window
// of the newest values against a window of the oldest ones.
package trend

import (
	"math"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// Policy configures the window size and the noise band.
type Policy struct {
	// Window is how many points each of the recent and older windows hold.
	Window int
	// Band is the relative change the recent mean must exceed before the
	// direction is anything other than stable.
	Band float64
}

// DefaultPolicy returns a 3-point window and a 5% band.
func DefaultPolicy() Policy {
	return Policy{Window: 3, Band: 0.05}
}

// Analyzer classifies metric histories. It is stateless.
type Analyzer struct {
	policy Policy
}

// NewAnalyzer builds an analyzer, falling back to defaults for unset fields.
func NewAnalyzer(policy Policy) *Analyzer {
	def := DefaultPolicy()
	if policy.Window <= 0 {
		policy.Window = def.Window
	}
	if policy.Band < 0 {
		policy.Band = def.Band
	}
	return &Analyzer{policy: policy}
}

// Classify reports the direction of history, which must be ordered newest
// first. Histories shorter than two points are stable.
func (a *Analyzer) Classify(history []float64, higherIsBetter bool) models.Trend {
	n := len(history)
	if n < 2 {
		return models.TrendStable
	}

	w := a.policy.Window
	if w > n {
		w = n
	}
	recent := mean(history[:w])
	older := mean(history[n-w:])
	margin := math.Abs(older) * a.policy.Band

	switch {
	case recent > older+margin:
		if higherIsBetter {
			return models.TrendImproving
		}
		return models.TrendDeclining
	case recent < older-margin:
		if higherIsBetter {
			return models.TrendDeclining
		}
		return models.TrendImproving
	default:
		return models.TrendStable
	}
}

// Classify uses the default policy.
func Classify(history []float64, higherIsBetter bool) models.Trend {
	return NewAnalyzer(DefaultPolicy()).Classify(history, higherIsBetter)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
