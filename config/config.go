package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Schedule  ScheduleConfig
	Booking   BookingConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Port       string
	Env        string
	Timezone   string
	Version    string
	CORSOrigin string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// ScheduleConfig is the clinic-wide business window. Clock values use "15:04".
// Providers may override it with their own schedule.
type ScheduleConfig struct {
	DayStart   string
	DayEnd     string
	LunchStart string
	LunchEnd   string
	SlotLength time.Duration
	LeadTime   time.Duration
}

type BookingConfig struct {
	LockEnabled bool
	LockTTL     time.Duration
	LockWait    time.Duration
}

// RateLimitConfig throttles the public auth endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	SampleRate  float64
}

func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// The .env file is optional; plain environment variables are enough.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			Timezone:   v.GetString("APP_TIMEZONE"),
			Version:    v.GetString("APP_VERSION"),
			CORSOrigin: v.GetString("APP_CORS_ORIGIN"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        v.GetString("JWT_SECRET"),
			Issuer:        v.GetString("JWT_ISSUER"),
			AccessExpiry:  durationOr(v, "JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: durationOr(v, "JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Schedule: ScheduleConfig{
			DayStart:   v.GetString("SCHEDULE_DAY_START"),
			DayEnd:     v.GetString("SCHEDULE_DAY_END"),
			LunchStart: v.GetString("SCHEDULE_LUNCH_START"),
			LunchEnd:   v.GetString("SCHEDULE_LUNCH_END"),
			SlotLength: durationOr(v, "SCHEDULE_SLOT_LENGTH", 30*time.Minute),
			LeadTime:   durationOr(v, "SCHEDULE_LEAD_TIME", 30*time.Minute),
		},
		Booking: BookingConfig{
			LockEnabled: v.GetBool("BOOKING_LOCK_ENABLED"),
			LockTTL:     durationOr(v, "BOOKING_LOCK_TTL", 5*time.Second),
			LockWait:    durationOr(v, "BOOKING_LOCK_WAIT", 2*time.Second),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("TRACING_ENABLED"),
			Endpoint:    v.GetString("TRACING_ENDPOINT"),
			ServiceName: v.GetString("TRACING_SERVICE_NAME"),
			SampleRate:  v.GetFloat64("TRACING_SAMPLE_RATE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("AUTH_RATE_LIMIT_RPS"),
			Burst:             v.GetInt("AUTH_RATE_LIMIT_BURST"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_TIMEZONE", "Local")
	v.SetDefault("APP_VERSION", "dev")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ISSUER", "healthcare-portal")
	v.SetDefault("SCHEDULE_DAY_START", "09:00")
	v.SetDefault("SCHEDULE_DAY_END", "17:00")
	v.SetDefault("SCHEDULE_LUNCH_START", "12:00")
	v.SetDefault("SCHEDULE_LUNCH_END", "13:00")
	v.SetDefault("BOOKING_LOCK_ENABLED", true)
	v.SetDefault("TRACING_SERVICE_NAME", "healthcare-portal")
	v.SetDefault("TRACING_SAMPLE_RATE", 1.0)
	v.SetDefault("APP_CORS_ORIGIN", "*")
	v.SetDefault("AUTH_RATE_LIMIT_RPS", 5)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Location resolves the clinic time zone. All appointment times are
// interpreted in this single location.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
