package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/agroclim/yield-etl/internal/domain"
)

// Config holds all stage settings, populated from environment variables and
// an optional YAML thresholds file.
type Config struct {
	// Input/output locations.
	ClimatePath string // silver daily-climate parquet
	YieldPath   string // raw semicolon-delimited yield CSV
	GoldDir     string // directory receiving the four output tables

	HTTPAddr        string // empty disables the metrics/health endpoint
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional feature-row publishing for the dashboard collector.
	KafkaBrokers       []string
	KafkaFeaturesTopic string
	KafkaEnabled       bool

	// Feature-engineering thresholds, overridable via THRESHOLDS_FILE and
	// individual environment variables.
	Params domain.Params
}

// thresholdsFile is the YAML shape of an external thresholds override file.
// Absent keys keep their defaults; zero is never a meaningful threshold here.
type thresholdsFile struct {
	GrowingSeasonStartMonth int     `yaml:"growing_season_start_month"`
	GrowingSeasonEndMonth   int     `yaml:"growing_season_end_month"`
	WinterStartMonth        int     `yaml:"winter_start_month"`
	DryDayPrecipMM          float64 `yaml:"dry_day_precip_mm"`
	MinDrySpellDays         int     `yaml:"min_dry_spell_days"`
	FreezeThresholdK        float64 `yaml:"freeze_threshold_kelvin"`
	HeatThresholdK          float64 `yaml:"heat_threshold_kelvin"`
	HeavyRainThresholdMM    float64 `yaml:"heavy_rain_threshold_mm"`
	ValidationCutoffYear    int     `yaml:"validation_cutoff_year"`
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	params, err := loadParams()
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		ClimatePath:        envOrDefault("SILVER_CLIMATE_PATH", "data/silver/climate.parquet"),
		YieldPath:          envOrDefault("RAW_YIELD_PATH", "data/bronze/barley_yield_from_1982.csv"),
		GoldDir:            envOrDefault("GOLD_DIR", "data/gold"),
		HTTPAddr:           os.Getenv("HTTP_ADDR"),
		LogLevel:           envOrDefault("LOG_LEVEL", "info"),
		LogFormat:          envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		KafkaBrokers:       splitAndTrim(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaFeaturesTopic: envOrDefault("KAFKA_FEATURES_TOPIC", "climate-features"),
		KafkaEnabled:       kafkaEnabled,
		Params:             params,
	}

	if cfg.ClimatePath == "" {
		return nil, errors.New("SILVER_CLIMATE_PATH is required")
	}
	if cfg.YieldPath == "" {
		return nil, errors.New("RAW_YIELD_PATH is required")
	}
	if cfg.GoldDir == "" {
		return nil, errors.New("GOLD_DIR is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaFeaturesTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_FEATURES_TOPIC is empty")
		}
	}

	return cfg, nil
}

// loadParams starts from the built-in defaults, overlays the YAML thresholds
// file when THRESHOLDS_FILE is set, then overlays individual env variables.
func loadParams() (domain.Params, error) {
	p := domain.DefaultParams()

	if path := os.Getenv("THRESHOLDS_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return p, fmt.Errorf("read thresholds file: %w", err)
		}
		var tf thresholdsFile
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return p, fmt.Errorf("parse thresholds file %s: %w", path, err)
		}
		applyThresholdsFile(&p, tf)
	}

	var err error
	if p.DryDayPrecipMM, err = parseFloat("DRY_DAY_PRECIP_MM", p.DryDayPrecipMM); err != nil {
		return p, err
	}
	if p.FreezeThresholdK, err = parseFloat("FREEZE_THRESHOLD_KELVIN", p.FreezeThresholdK); err != nil {
		return p, err
	}
	if p.HeatThresholdK, err = parseFloat("HEAT_THRESHOLD_KELVIN", p.HeatThresholdK); err != nil {
		return p, err
	}
	if p.HeavyRainThresholdMM, err = parseFloat("HEAVY_RAIN_THRESHOLD_MM", p.HeavyRainThresholdMM); err != nil {
		return p, err
	}
	if p.MinDrySpellDays, err = parseInt("MIN_DRY_SPELL_DAYS", p.MinDrySpellDays); err != nil {
		return p, err
	}
	if p.ValidationCutoffYear, err = parseInt("VALIDATION_CUTOFF_YEAR", p.ValidationCutoffYear); err != nil {
		return p, err
	}

	if err := validateParams(p); err != nil {
		return p, err
	}
	return p, nil
}

func applyThresholdsFile(p *domain.Params, tf thresholdsFile) {
	if tf.GrowingSeasonStartMonth != 0 {
		p.GrowingSeasonStart = time.Month(tf.GrowingSeasonStartMonth)
	}
	if tf.GrowingSeasonEndMonth != 0 {
		p.GrowingSeasonEnd = time.Month(tf.GrowingSeasonEndMonth)
	}
	if tf.WinterStartMonth != 0 {
		p.WinterStart = time.Month(tf.WinterStartMonth)
	}
	if tf.DryDayPrecipMM != 0 {
		p.DryDayPrecipMM = tf.DryDayPrecipMM
	}
	if tf.MinDrySpellDays != 0 {
		p.MinDrySpellDays = tf.MinDrySpellDays
	}
	if tf.FreezeThresholdK != 0 {
		p.FreezeThresholdK = tf.FreezeThresholdK
	}
	if tf.HeatThresholdK != 0 {
		p.HeatThresholdK = tf.HeatThresholdK
	}
	if tf.HeavyRainThresholdMM != 0 {
		p.HeavyRainThresholdMM = tf.HeavyRainThresholdMM
	}
	if tf.ValidationCutoffYear != 0 {
		p.ValidationCutoffYear = tf.ValidationCutoffYear
	}
}

func validateParams(p domain.Params) error {
	if p.GrowingSeasonStart < time.January || p.GrowingSeasonStart > time.December ||
		p.GrowingSeasonEnd < time.January || p.GrowingSeasonEnd > time.December ||
		p.GrowingSeasonStart > p.GrowingSeasonEnd {
		return errors.New("invalid growing season months")
	}
	if p.WinterStart <= p.GrowingSeasonEnd || p.WinterStart > time.December {
		return errors.New("winter start month must follow the growing season")
	}
	if p.MinDrySpellDays < 1 {
		return errors.New("MIN_DRY_SPELL_DAYS must be at least 1")
	}
	if p.DryDayPrecipMM < 0 || p.HeavyRainThresholdMM <= 0 {
		return errors.New("invalid precipitation thresholds")
	}
	if p.FreezeThresholdK >= p.HeatThresholdK {
		return errors.New("freeze threshold must be below heat threshold")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}
