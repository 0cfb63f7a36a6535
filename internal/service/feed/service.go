package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
	"github.com/mamadbah2/herdhealth/internal/engine/score"
	"github.com/mamadbah2/herdhealth/internal/engine/trend"
	"github.com/mamadbah2/herdhealth/internal/repository/sheets"
)

// ErrFeedLogDisabled is returned when no feed log has been configured.
var ErrFeedLogDisabled = errors.New("feed log is not configured")

// DefaultTrendPeriods is how many consecutive periods feed the FCR trend.
const DefaultTrendPeriods = 6

// Service records feed and weigh-in entries and derives feed efficiency.
type Service struct {
	log     sheets.FeedLog
	scores  *score.Calculator
	trends  *trend.Analyzer
	periods int
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires the feed service. A nil log disables every operation.
func NewService(log sheets.FeedLog, scores *score.Calculator, trends *trend.Analyzer, periods int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scores == nil {
		scores = score.NewCalculator(score.DefaultPolicy())
	}
	if trends == nil {
		trends = trend.NewAnalyzer(trend.DefaultPolicy())
	}
	if periods <= 0 {
		periods = DefaultTrendPeriods
	}
	return &Service{
		log:     log,
		scores:  scores,
		trends:  trends,
		periods: periods,
		logger:  logger,
		now:     time.Now,
	}
}

// RecordFeed appends a feeding entry. A missing date means today.
func (s *Service) RecordFeed(ctx context.Context, sample models.FeedSample) (models.FeedSample, error) {
	if s.log == nil {
		return models.FeedSample{}, ErrFeedLogDisabled
	}
	if sample.Date.IsZero() {
		sample.Date = s.today()
	}
	if err := models.ValidateFeedSample(sample); err != nil {
		return models.FeedSample{}, err
	}

	if err := s.log.AppendFeed(ctx, sample); err != nil {
		return models.FeedSample{}, fmt.Errorf("failed to record feed: %w", err)
	}

	s.logger.Debug("feed recorded", zap.String("animal_id", sample.AnimalID), zap.Float64("lbs", sample.AmountLbs))
	return sample, nil
}

// RecordWeight appends a weigh-in. A missing date means today.
func (s *Service) RecordWeight(ctx context.Context, sample models.WeightSample) (models.WeightSample, error) {
	if s.log == nil {
		return models.WeightSample{}, ErrFeedLogDisabled
	}
	if sample.Date.IsZero() {
		sample.Date = s.today()
	}
	if err := models.ValidateWeightSample(sample); err != nil {
		return models.WeightSample{}, err
	}

	if err := s.log.AppendWeight(ctx, sample); err != nil {
		return models.WeightSample{}, fmt.Errorf("failed to record weight: %w", err)
	}

	s.logger.Debug("weight recorded", zap.String("animal_id", sample.AnimalID), zap.Float64("lbs", sample.WeightLbs))
	return sample, nil
}

// Efficiency scores the periodDays ending at periodEnd (today when zero) and
// classifies the FCR trend over the preceding periods of the same length.
// Periods without weight gain are left out of the trend.
func (s *Service) Efficiency(ctx context.Context, animalID string, periodEnd time.Time, periodDays int) (models.FeedEfficiencyRecord, error) {
	if s.log == nil {
		return models.FeedEfficiencyRecord{}, ErrFeedLogDisabled
	}
	if periodEnd.IsZero() {
		periodEnd = s.now().UTC()
	}
	if periodDays <= 0 {
		periodDays = models.DefaultPeriodDays
	}

	feed, err := s.log.ListFeed(ctx, animalID)
	if err != nil {
		return models.FeedEfficiencyRecord{}, fmt.Errorf("failed to load feed log: %w", err)
	}
	weights, err := s.log.ListWeights(ctx, animalID)
	if err != nil {
		return models.FeedEfficiencyRecord{}, fmt.Errorf("failed to load weigh-ins: %w", err)
	}

	record := s.scores.BuildFeedRecord(animalID, feed, weights, periodEnd, periodDays)

	// Newest period first, as the trend analyzer expects.
	history := make([]float64, 0, s.periods)
	for k := 0; k < s.periods; k++ {
		end := periodEnd.AddDate(0, 0, -k*periodDays)
		past := record
		if k > 0 {
			past = s.scores.BuildFeedRecord(animalID, feed, weights, end, periodDays)
		}
		if past.Efficiency.Defined {
			history = append(history, past.Efficiency.FCR)
		}
	}
	record.FCRTrend = s.trends.Classify(history, false)

	return record, nil
}

func (s *Service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
