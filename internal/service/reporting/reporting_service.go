package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

const dateLayout = "2006-01-02"

// HerdDirectory lists the animals known to the system.
type HerdDirectory interface {
	ListAnimalIDs(ctx context.Context) ([]string, error)
}

// HealthAdapter defines the health reads required by the digest.
type HealthAdapter interface {
	Summary(ctx context.Context, animalID string) (models.HealthSummary, error)
}

// FeedAdapter defines the feed reads required by the digest.
type FeedAdapter interface {
	Efficiency(ctx context.Context, animalID string, periodEnd time.Time, periodDays int) (models.FeedEfficiencyRecord, error)
}

// Service builds the weekly herd digest.
type Service struct {
	herd   HerdDirectory
	health HealthAdapter
	feed   FeedAdapter
	logger *zap.Logger
}

// NewService wires a new reporting service instance. feed may be nil.
func NewService(herd HerdDirectory, health HealthAdapter, feed FeedAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{herd: herd, health: health, feed: feed, logger: logger}
}

type animalLine struct {
	summary    models.HealthSummary
	efficiency *models.FeedEfficiencyRecord
}

// GenerateWeeklyReport summarizes every animal's health as of now. Animals
// are listed lowest score first so the ones needing attention lead.
func (s *Service) GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error) {
	ids, err := s.herd.ListAnimalIDs(ctx)
	if err != nil {
		return "", fmt.Errorf("load herd: %w", err)
	}

	start := now.AddDate(0, 0, -7)
	header := fmt.Sprintf("Weekly herd report (%s - %s)", start.Format(dateLayout), now.Format(dateLayout))
	if len(ids) == 0 {
		return header + "\nNo animals on record yet.", nil
	}

	lines := make([]animalLine, 0, len(ids))
	for _, id := range ids {
		summary, ok := s.safeSummary(ctx, id)
		if !ok {
			continue
		}
		lines = append(lines, animalLine{summary: summary, efficiency: s.safeEfficiency(ctx, id, now)})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].summary.CurrentScore != lines[j].summary.CurrentScore {
			return lines[i].summary.CurrentScore < lines[j].summary.CurrentScore
		}
		return lines[i].summary.AnimalID < lines[j].summary.AnimalID
	})

	var b strings.Builder
	b.WriteString(header)

	var alertTotal, declining int
	for _, line := range lines {
		sum := line.summary
		alertTotal += len(sum.ActiveAlerts)
		if sum.Trend == models.TrendDeclining {
			declining++
		}

		fmt.Fprintf(&b, "\n- %s: score %.0f (%s), %s", sum.AnimalID, sum.CurrentScore, sum.Trend, pluralize(len(sum.ActiveAlerts), "active alert"))
		if eff := line.efficiency; eff != nil && eff.Efficiency.Defined {
			fmt.Fprintf(&b, ", FCR %.2f (%s)", eff.Efficiency.FCR, eff.FCRTrend)
		}
	}

	fmt.Fprintf(&b, "\nTotals: %s, %s, %d declining.", pluralize(len(lines), "animal"), pluralize(alertTotal, "active alert"), declining)
	if skipped := len(ids) - len(lines); skipped > 0 {
		fmt.Fprintf(&b, " %d unavailable.", skipped)
	}

	return b.String(), nil
}

func (s *Service) safeSummary(ctx context.Context, animalID string) (models.HealthSummary, bool) {
	summary, err := s.health.Summary(ctx, animalID)
	if err != nil {
		s.logger.Debug("summary unavailable", zap.String("animal_id", animalID), zap.Error(err))
		return models.HealthSummary{}, false
	}
	return summary, true
}

func (s *Service) safeEfficiency(ctx context.Context, animalID string, now time.Time) *models.FeedEfficiencyRecord {
	if s.feed == nil {
		return nil
	}
	record, err := s.feed.Efficiency(ctx, animalID, now, models.DefaultPeriodDays)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Debug("feed efficiency unavailable", zap.String("animal_id", animalID), zap.Error(err))
		}
		return nil
	}
	return &record
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
