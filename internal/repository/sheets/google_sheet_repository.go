package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/herdhealth/internal/config"
	"github.com/mamadbah2/herdhealth/internal/domain/models"
)

const (
	dateLayout  = "2006-01-02"
	feedRange   = "Feed!A:E"
	weightRange = "Weights!A:C"
)

// FeedLog persists feed and weigh-in entries.
type FeedLog interface {
	AppendFeed(ctx context.Context, sample models.FeedSample) error
	AppendWeight(ctx context.Context, sample models.WeightSample) error
	ListFeed(ctx context.Context, animalID string) ([]models.FeedSample, error)
	ListWeights(ctx context.Context, animalID string) ([]models.WeightSample, error)
}

// valuesAPI is the slice of the Sheets values service the log needs.
type valuesAPI interface {
	appendRow(ctx context.Context, sheetRange string, row []interface{}) error
	readRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// GoogleSheetFeedLog keeps the feed log in a spreadsheet so farm staff can
// edit it by hand. Rows: Feed = date, animal, lbs, cost, feed type;
// Weights = date, animal, lbs.
type GoogleSheetFeedLog struct {
	values valuesAPI
	logger *zap.Logger
}

// NewGoogleSheetFeedLog builds a Google Sheets backed feed log.
func NewGoogleSheetFeedLog(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetFeedLog, error) {
	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return newFeedLog(&sheetValues{service: service, spreadsheetID: cfg.SpreadsheetID}, logger), nil
}

func newFeedLog(values valuesAPI, logger *zap.Logger) *GoogleSheetFeedLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleSheetFeedLog{values: values, logger: logger}
}

// AppendFeed adds one feed row.
func (l *GoogleSheetFeedLog) AppendFeed(ctx context.Context, s models.FeedSample) error {
	row := []interface{}{s.Date.Format(dateLayout), s.AnimalID, s.AmountLbs, s.Cost, s.FeedType}
	return l.values.appendRow(ctx, feedRange, row)
}

// AppendWeight adds one weigh-in row.
func (l *GoogleSheetFeedLog) AppendWeight(ctx context.Context, s models.WeightSample) error {
	row := []interface{}{s.Date.Format(dateLayout), s.AnimalID, s.WeightLbs}
	return l.values.appendRow(ctx, weightRange, row)
}

// ListFeed returns the feed rows of one animal. Malformed rows are skipped.
func (l *GoogleSheetFeedLog) ListFeed(ctx context.Context, animalID string) ([]models.FeedSample, error) {
	rows, err := l.values.readRange(ctx, feedRange)
	if err != nil {
		return nil, fmt.Errorf("load feed range: %w", err)
	}

	var out []models.FeedSample
	for _, row := range rows {
		if len(row) < 3 || cell(row, 1) != animalID {
			continue
		}

		date, err := parseDate(row[0])
		if err != nil {
			l.logger.Debug("skip feed row with invalid date", zap.Any("value", row[0]), zap.Error(err))
			continue
		}
		amount, err := parseFloat(row[2])
		if err != nil {
			l.logger.Debug("skip feed row with invalid amount", zap.Any("value", row[2]), zap.Error(err))
			continue
		}

		var cost float64
		if len(row) > 3 {
			if c, err := parseFloat(row[3]); err == nil {
				cost = c
			}
		}

		out = append(out, models.FeedSample{
			Date:      date,
			AnimalID:  animalID,
			AmountLbs: amount,
			Cost:      cost,
			FeedType:  cell(row, 4),
		})
	}
	return out, nil
}

// ListWeights returns the weigh-in rows of one animal. Malformed rows are skipped.
func (l *GoogleSheetFeedLog) ListWeights(ctx context.Context, animalID string) ([]models.WeightSample, error) {
	rows, err := l.values.readRange(ctx, weightRange)
	if err != nil {
		return nil, fmt.Errorf("load weights range: %w", err)
	}

	var out []models.WeightSample
	for _, row := range rows {
		if len(row) < 3 || cell(row, 1) != animalID {
			continue
		}

		date, err := parseDate(row[0])
		if err != nil {
			l.logger.Debug("skip weight row with invalid date", zap.Any("value", row[0]), zap.Error(err))
			continue
		}
		weight, err := parseFloat(row[2])
		if err != nil {
			l.logger.Debug("skip weight row with invalid weight", zap.Any("value", row[2]), zap.Error(err))
			continue
		}

		out = append(out, models.WeightSample{Date: date, AnimalID: animalID, WeightLbs: weight})
	}
	return out, nil
}

type sheetValues struct {
	service       *sheetsapi.Service
	spreadsheetID string
}

func (v *sheetValues) appendRow(ctx context.Context, sheetRange string, row []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := v.service.Spreadsheets.Values.Append(v.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}
	return nil
}

func (v *sheetValues) readRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	resp, err := v.service.Spreadsheets.Values.Get(v.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseDate(value interface{}) (time.Time, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(dateLayout, str)
}

func parseFloat(value interface{}) (float64, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}
