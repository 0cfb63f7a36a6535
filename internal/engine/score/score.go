// Package score turns observations and feed/weight totals into health and
// efficiency scores.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// Policy holds the tunable constants of the scoring formulas.
type Policy struct {
	// Base is the starting score of a single observation.
	Base float64
	// SeverityPenalty is subtracted once per severity level (1-5).
	SeverityPenalty float64
	// SymptomPenalty is subtracted once per distinct symptom.
	SymptomPenalty float64
	// BodyConditionBonus is added when the 1-5 body condition reaches BodyConditionThreshold.
	BodyConditionBonus     float64
	BodyConditionThreshold int
	// SummaryWindow is how many recent observations feed the aggregate score.
	SummaryWindow int
	// NeutralScore is reported when there is no history at all.
	NeutralScore float64

	FCROptimum  float64
	FCRSlope    float64
	CostOptimum float64
	CostSlope   float64
}

// DefaultPolicy returns the standard scoring constants.
func DefaultPolicy() Policy {
	return Policy{
		Base:                   100,
		SeverityPenalty:        10,
		SymptomPenalty:         5,
		BodyConditionBonus:     10,
		BodyConditionThreshold: 4,
		SummaryWindow:          5,
		NeutralScore:           50,
		FCROptimum:             2,
		FCRSlope:               10,
		CostOptimum:            1,
		CostSlope:              20,
	}
}

// Calculator computes scores under a fixed policy. It holds no state beyond
// the policy and is safe for concurrent use.
type Calculator struct {
	policy Policy
}

// NewCalculator builds a calculator. A zero SummaryWindow falls back to the default.
func NewCalculator(policy Policy) *Calculator {
	if policy.SummaryWindow <= 0 {
		policy.SummaryWindow = DefaultPolicy().SummaryWindow
	}
	return &Calculator{policy: policy}
}

// Policy returns the constants in use.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// ObservationScore scores a single observation on a 0-100 scale.
func (c *Calculator) ObservationScore(obs models.Observation) float64 {
	s := c.policy.Base
	s -= float64(obs.Severity()) * c.policy.SeverityPenalty
	s -= float64(len(DistinctSymptoms(obs))) * c.policy.SymptomPenalty
	if obs.BodyCondition != nil && *obs.BodyCondition >= c.policy.BodyConditionThreshold {
		s += c.policy.BodyConditionBonus
	}
	return clamp(s, 0, 100)
}

// SummaryScore averages the per-observation score over the most recent
// observations. history may arrive in any order; it is ranked newest first.
func (c *Calculator) SummaryScore(history []models.Observation) float64 {
	if len(history) == 0 {
		return c.policy.NeutralScore
	}

	recent := MostRecent(history, c.policy.SummaryWindow)
	var total float64
	for _, obs := range recent {
		total += c.ObservationScore(obs)
	}
	return total / float64(len(recent))
}

// FeedEfficiency derives FCR, cost per pound of gain and the combined score.
func (c *Calculator) FeedEfficiency(feed models.FeedTotals, weight models.WeightTotals) models.FeedEfficiency {
	if weight.TotalGain <= 0 {
		return models.FeedEfficiency{}
	}

	fcr := feed.TotalLbs / weight.TotalGain
	costPerLb := feed.TotalCost / weight.TotalGain

	fcrScore := clamp(100-(fcr-c.policy.FCROptimum)*c.policy.FCRSlope, 0, 100)
	costScore := clamp(100-(costPerLb-c.policy.CostOptimum)*c.policy.CostSlope, 0, 100)

	return models.FeedEfficiency{
		FCR:             fcr,
		CostPerLbGain:   costPerLb,
		FCRScore:        fcrScore,
		CostScore:       costScore,
		EfficiencyScore: int(math.Round((fcrScore + costScore) / 2)),
		Defined:         true,
	}
}

// DistinctSymptoms merges standard and custom symptoms, ignoring case and
// surrounding whitespace.
func DistinctSymptoms(obs models.Observation) []string {
	seen := make(map[string]struct{}, len(obs.Symptoms)+len(obs.CustomSymptoms))
	out := make([]string, 0, len(obs.Symptoms)+len(obs.CustomSymptoms))

	add := func(values []string) {
		for _, v := range values {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	add(obs.Symptoms)
	add(obs.CustomSymptoms)

	return out
}

// MostRecent returns up to n observations, newest first, without modifying history.
func MostRecent(history []models.Observation, n int) []models.Observation {
	ordered := make([]models.Observation, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RecordedAt.After(ordered[j].RecordedAt)
	})
	if n > 0 && len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
