package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Scoring   ScoringConfig
	Trend     TrendConfig
	Alerts    AlertConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level       string
	Development bool
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig points at the spreadsheet holding the feed and weigh-in log.
// The feed log is disabled when CredentialsPath is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the feed log can be used.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != ""
}

// WhatsAppConfig contains credentials for delivering the herd digest through
// the Meta WhatsApp Cloud API. Delivery is disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	RecipientID   string
}

// Enabled reports whether digests can be delivered.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// ScoringConfig overrides the health and feed efficiency scoring constants.
type ScoringConfig struct {
	SeverityPenalty        float64
	SymptomPenalty         float64
	BodyConditionBonus     float64
	BodyConditionThreshold int
	SummaryWindow          int
	NeutralScore           float64
	FCROptimum             float64
	FCRSlope               float64
	CostOptimum            float64
	CostSlope              float64
}

// TrendConfig controls trend classification.
type TrendConfig struct {
	Window        int
	Band          float64
	SummaryWindow int
	FeedPeriods   int
}

// AlertConfig controls the alert trigger rules.
type AlertConfig struct {
	EmergencySeverity   int
	VaccinationLeadDays int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	var errs []error
	num := func(key string, fallback float64) float64 {
		v, err := getenvFloat(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}
	integer := func(key string, fallback int) int {
		v, err := getenvInt(key, fallback)
		if err != nil {
			errs = append(errs, err)
		}
		return v
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level:       getenvWithDefault("LOG_LEVEL", "info"),
			Development: getenvWithDefault("APP_ENV", "production") == "development",
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdhealth"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_FEED_LOG_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			RecipientID:   os.Getenv("WHATSAPP_DIGEST_RECIPIENT"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			Timezone:     getenvWithDefault("TIMEZONE", "Africa/Conakry"),
		},
		Scoring: ScoringConfig{
			SeverityPenalty:        num("SCORE_SEVERITY_PENALTY", 10),
			SymptomPenalty:         num("SCORE_SYMPTOM_PENALTY", 5),
			BodyConditionBonus:     num("SCORE_BODY_CONDITION_BONUS", 10),
			BodyConditionThreshold: integer("SCORE_BODY_CONDITION_THRESHOLD", 4),
			SummaryWindow:          integer("SCORE_SUMMARY_WINDOW", 5),
			NeutralScore:           num("SCORE_NEUTRAL", 50),
			FCROptimum:             num("SCORE_FCR_OPTIMUM", 2),
			FCRSlope:               num("SCORE_FCR_SLOPE", 10),
			CostOptimum:            num("SCORE_COST_OPTIMUM", 1),
			CostSlope:              num("SCORE_COST_SLOPE", 20),
		},
		Trend: TrendConfig{
			Window:        integer("TREND_WINDOW", 3),
			Band:          num("TREND_BAND", 0.05),
			SummaryWindow: integer("TREND_SUMMARY_OBSERVATIONS", 10),
			FeedPeriods:   integer("TREND_FEED_PERIODS", 6),
		},
		Alerts: AlertConfig{
			EmergencySeverity:   integer("ALERT_EMERGENCY_SEVERITY", 4),
			VaccinationLeadDays: integer("ALERT_VACCINATION_LEAD_DAYS", 7),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Sheets.Enabled() && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_FEED_LOG_ID must be provided with GOOGLE_SHEETS_CREDENTIALS_PATH")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.RecipientID == "":
			return errors.New("WHATSAPP_DIGEST_RECIPIENT must be provided")
		}
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Scoring.BodyConditionThreshold < 1 || c.Scoring.BodyConditionThreshold > 5 {
		return errors.New("SCORE_BODY_CONDITION_THRESHOLD must be on the 1-5 scale")
	}

	if c.Alerts.EmergencySeverity < 1 || c.Alerts.EmergencySeverity > 5 {
		return errors.New("ALERT_EMERGENCY_SEVERITY must be on the 1-5 scale")
	}

	if c.Alerts.VaccinationLeadDays < 0 {
		return errors.New("ALERT_VACCINATION_LEAD_DAYS must not be negative")
	}

	if c.Trend.Band < 0 {
		return errors.New("TREND_BAND must not be negative")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return v, nil
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
