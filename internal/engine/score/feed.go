package score

import (
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

// BuildFeedRecord aggregates raw feed and weigh-in samples for one animal over
// the periodDays ending at periodEnd (inclusive) and scores the result.
// Samples of other animals or outside the window are ignored.
func (c *Calculator) BuildFeedRecord(animalID string, feed []models.FeedSample, weights []models.WeightSample, periodEnd time.Time, periodDays int) models.FeedEfficiencyRecord {
	if periodDays <= 0 {
		periodDays = models.DefaultPeriodDays
	}
	periodStart := periodEnd.AddDate(0, 0, -periodDays)

	record := models.FeedEfficiencyRecord{
		AnimalID:    animalID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PeriodDays:  periodDays,
		FCRTrend:    models.TrendStable,
	}

	types := make(map[string]struct{})
	for _, s := range feed {
		if s.AnimalID != animalID || !inWindow(s.Date, periodStart, periodEnd) {
			continue
		}
		record.Feed.TotalLbs += s.AmountLbs
		record.Feed.TotalCost += s.Cost
		if ft := strings.TrimSpace(s.FeedType); ft != "" {
			types[ft] = struct{}{}
		}
	}
	record.Feed.FeedTypes = make([]string, 0, len(types))
	for ft := range types {
		record.Feed.FeedTypes = append(record.Feed.FeedTypes, ft)
	}
	sort.Strings(record.Feed.FeedTypes)

	var window []models.WeightSample
	for _, w := range weights {
		if w.AnimalID == animalID && inWindow(w.Date, periodStart, periodEnd) {
			window = append(window, w)
		}
	}
	sort.SliceStable(window, func(i, j int) bool { return window[i].Date.Before(window[j].Date) })

	if len(window) > 0 {
		first, last := window[0], window[len(window)-1]
		record.Weight.StartWeight = first.WeightLbs
		record.Weight.EndWeight = last.WeightLbs
		record.Weight.TotalGain = last.WeightLbs - first.WeightLbs
		if days := last.Date.Sub(first.Date).Hours() / 24; days > 0 {
			record.Weight.AverageDailyGain = record.Weight.TotalGain / days
		}
	}

	record.Efficiency = c.FeedEfficiency(record.Feed, record.Weight)
	return record
}

func inWindow(t, start, end time.Time) bool {
	return t.After(start) && !t.After(end)
}
