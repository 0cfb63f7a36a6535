package models

import "time"

// DefaultPeriodDays is the feed efficiency window used when none is given.
const DefaultPeriodDays = 30

// FeedSample is one feeding entry from the feed log.
type FeedSample struct {
	Date      time.Time `json:"date"`
	AnimalID  string    `json:"animal_id" validate:"required"`
	AmountLbs float64   `json:"amount_lbs" validate:"gte=0"`
	Cost      float64   `json:"cost" validate:"gte=0"`
	FeedType  string    `json:"feed_type"`
}

// WeightSample is one weigh-in.
type WeightSample struct {
	Date      time.Time `json:"date"`
	AnimalID  string    `json:"animal_id" validate:"required"`
	WeightLbs float64   `json:"weight_lbs" validate:"gte=0"`
}

// FeedTotals summarizes feed consumption over a period.
type FeedTotals struct {
	TotalLbs  float64  `json:"total_lbs"`
	TotalCost float64  `json:"total_cost"`
	FeedTypes []string `json:"feed_types"`
}

// WeightTotals summarizes weight gain over a period.
type WeightTotals struct {
	StartWeight      float64 `json:"start_weight"`
	EndWeight        float64 `json:"end_weight"`
	TotalGain        float64 `json:"total_gain"`
	AverageDailyGain float64 `json:"average_daily_gain"`
}

// FeedEfficiency is the derived performance of one period.
// FCR and CostPerLbGain are reported as 0 with Defined=false when no weight was gained.
type FeedEfficiency struct {
	FCR             float64 `json:"fcr"`
	CostPerLbGain   float64 `json:"cost_per_lb_gain"`
	FCRScore        float64 `json:"fcr_score"`
	CostScore       float64 `json:"cost_score"`
	EfficiencyScore int     `json:"efficiency_score"`
	Defined         bool    `json:"defined"`
}

// FeedEfficiencyRecord is the per-animal, per-period aggregate.
type FeedEfficiencyRecord struct {
	AnimalID    string         `json:"animal_id"`
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	PeriodDays  int            `json:"period_days"`
	Feed        FeedTotals     `json:"feed"`
	Weight      WeightTotals   `json:"weight"`
	Efficiency  FeedEfficiency `json:"efficiency"`
	FCRTrend    Trend          `json:"fcr_trend"`
}
