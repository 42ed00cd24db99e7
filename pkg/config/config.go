package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Finance   FinanceConfig
	Payroll   PayrollConfig
	Rollup    RollupConfig
	Dashboard DashboardConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// FinanceConfig is the static fallback pricing for promotion fees, used
// when no active fee template matches the promoted grade level.
type FinanceConfig struct {
	PromotionFeesEnabled bool
	FeeType              string
	FeeStatus            string
	Currency             string
	DueInDays            int
	GradeAmounts         map[string]decimal.Decimal
}

// PayrollConfig carries payroll defaults.
type PayrollConfig struct {
	DefaultCurrency string
}

// RollupConfig controls the recurring attendance rollup.
type RollupConfig struct {
	Enabled  bool
	Schedule string
}

// DashboardConfig governs dashboard exposure and cache tuning.
type DashboardConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	gradeAmounts, err := parseGradeAmounts(v.GetString("PROMOTION_FEE_GRADE_AMOUNTS"))
	if err != nil {
		return nil, err
	}
	cfg.Finance = FinanceConfig{
		PromotionFeesEnabled: v.GetBool("PROMOTION_FEES_ENABLED"),
		FeeType:              v.GetString("PROMOTION_FEE_TYPE"),
		FeeStatus:            v.GetString("PROMOTION_FEE_STATUS"),
		Currency:             v.GetString("PROMOTION_FEE_CURRENCY"),
		DueInDays:            v.GetInt("PROMOTION_FEE_DUE_IN_DAYS"),
		GradeAmounts:         gradeAmounts,
	}

	cfg.Payroll = PayrollConfig{
		DefaultCurrency: v.GetString("PAYROLL_DEFAULT_CURRENCY"),
	}

	cfg.Rollup = RollupConfig{
		Enabled:  v.GetBool("ENABLE_ATTENDANCE_ROLLUP"),
		Schedule: v.GetString("ATTENDANCE_ROLLUP_SCHEDULE"),
	}

	cfg.Dashboard = DashboardConfig{
		Enabled:  v.GetBool("ENABLE_DASHBOARD"),
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sekolahku_backoffice")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("PROMOTION_FEES_ENABLED", true)
	v.SetDefault("PROMOTION_FEE_TYPE", "TUITION")
	v.SetDefault("PROMOTION_FEE_STATUS", "PENDING")
	v.SetDefault("PROMOTION_FEE_CURRENCY", "IDR")
	v.SetDefault("PROMOTION_FEE_DUE_IN_DAYS", 30)
	v.SetDefault("PROMOTION_FEE_GRADE_AMOUNTS", "")

	v.SetDefault("PAYROLL_DEFAULT_CURRENCY", "IDR")

	v.SetDefault("ENABLE_ATTENDANCE_ROLLUP", false)
	v.SetDefault("ATTENDANCE_ROLLUP_SCHEDULE", "0 5 * * *")

	v.SetDefault("ENABLE_DASHBOARD", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// parseGradeAmounts reads "SD_1=1500000,SD_2=1750000" style pairs.
func parseGradeAmounts(raw string) (map[string]decimal.Decimal, error) {
	amounts := make(map[string]decimal.Decimal)
	for _, pair := range splitAndTrim(raw) {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return nil, errors.New("invalid PROMOTION_FEE_GRADE_AMOUNTS entry: " + pair)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, err
		}
		amounts[strings.TrimSpace(key)] = amount
	}
	return amounts, nil
}
