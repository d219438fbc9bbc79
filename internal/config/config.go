package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/retail-backoffice/payroll-engine/internal/domain/payroll"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/database"
	"github.com/retail-backoffice/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration. Tokens are issued elsewhere; only the secret is needed to verify them.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// PayrollConfig holds the settlement rules that are still open to product decision.
type PayrollConfig struct {
	LateThresholdHour       int
	ShiftStartHour          int
	PartialPayDeductionRate decimal.Decimal
	BatchConcurrency        int
	RunMigrations           bool
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 1)
	if err != nil {
		return nil, err
	}
	connLifetime, err := time.ParseDuration(getEnv("DB_MAX_CONN_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_LIFETIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "payroll"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: connLifetime,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// Payroll configuration
	lateThreshold, err := getEnvInt("PAYROLL_LATE_THRESHOLD_HOUR", payroll.DefaultLateThresholdHour)
	if err != nil {
		return nil, err
	}
	shiftStart, err := getEnvInt("PAYROLL_SHIFT_START_HOUR", payroll.DefaultShiftStartHour)
	if err != nil {
		return nil, err
	}
	partialRate, err := decimal.NewFromString(getEnv("PAYROLL_PARTIAL_PAY_DEDUCTION_RATE", payroll.DefaultPartialPayDeductionRate.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_PARTIAL_PAY_DEDUCTION_RATE: %w", err)
	}
	batchConcurrency, err := getEnvInt("PAYROLL_BATCH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	runMigrations, err := strconv.ParseBool(getEnv("PAYROLL_RUN_MIGRATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_RUN_MIGRATIONS: %w", err)
	}

	config.Payroll = PayrollConfig{
		LateThresholdHour:       lateThreshold,
		ShiftStartHour:          shiftStart,
		PartialPayDeductionRate: partialRate,
		BatchConcurrency:        batchConcurrency,
		RunMigrations:           runMigrations,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !validator.IsInSlice(strings.ToLower(c.App.LogLevel), logLevels) {
		return fmt.Errorf("LOG_LEVEL must be one of %s", strings.Join(logLevels, ", "))
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.Payroll.ShiftStartHour < 0 || c.Payroll.ShiftStartHour > 23 {
		return fmt.Errorf("PAYROLL_SHIFT_START_HOUR must be between 0 and 23")
	}
	if c.Payroll.LateThresholdHour < c.Payroll.ShiftStartHour || c.Payroll.LateThresholdHour > 23 {
		return fmt.Errorf("PAYROLL_LATE_THRESHOLD_HOUR must be between PAYROLL_SHIFT_START_HOUR and 23")
	}
	if c.Payroll.PartialPayDeductionRate.IsNegative() || c.Payroll.PartialPayDeductionRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("PAYROLL_PARTIAL_PAY_DEDUCTION_RATE must be between 0 and 1")
	}
	if c.Payroll.BatchConcurrency < 1 {
		return fmt.Errorf("PAYROLL_BATCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) PoolOptions() database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        c.Database.MaxConns,
		MinConns:        c.Database.MinConns,
		MaxConnLifetime: c.Database.MaxConnLifetime,
	}
}

func (c *Config) Policy() payroll.Policy {
	return payroll.Policy{
		LateThresholdHour:       c.Payroll.LateThresholdHour,
		ShiftStartHour:          c.Payroll.ShiftStartHour,
		PartialPayDeductionRate: c.Payroll.PartialPayDeductionRate,
	}
}

// SlogLevel maps LOG_LEVEL onto slog, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
