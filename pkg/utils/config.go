package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Links      LinksConfig
	Slots      SlotsConfig
	Upload     UploadConfig
	RateLimit  RateLimitConfig
	SuperAdmin SuperAdminConfig
	CORS       CORSConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	AvailabilityTTLSec int
}

type SessionConfig struct {
	CookieName  string
	ExpiryHours int
	Secure      bool
}

type LinksConfig struct {
	ShareExpiryDays    int
	BookingExpiryHours int
}

// SlotsConfig holds opening hours per venue type, 24h clock, close hour exclusive.
type SlotsConfig struct {
	PoolOpen        int
	PoolClose       int
	TennisOpen      int
	TennisClose     int
	PickleballOpen  int
	PickleballClose int
}

type UploadConfig struct {
	Dir       string
	MaxSizeMB int64
}

type RateLimitConfig struct {
	PerSecond      float64
	Burst          int
	TrustedProxies []string
}

type SuperAdminConfig struct {
	Name     string
	Email    string
	Password string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LoadConfig reads path (usually ".env") when present and overlays environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "venue-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("BASE_URL", "http://localhost:3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_AVAILABILITY_TTL_SEC", 30)
	v.SetDefault("SESSION_COOKIE_NAME", "session_token")
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("SHARE_LINK_EXPIRY_DAYS", 7)
	v.SetDefault("BOOKING_LINK_EXPIRY_HOURS", 24)
	v.SetDefault("SLOTS_POOL_OPEN", 6)
	v.SetDefault("SLOTS_POOL_CLOSE", 21)
	v.SetDefault("SLOTS_TENNIS_OPEN", 6)
	v.SetDefault("SLOTS_TENNIS_CLOSE", 22)
	v.SetDefault("SLOTS_PICKLEBALL_OPEN", 7)
	v.SetDefault("SLOTS_PICKLEBALL_CLOSE", 22)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_MAX_MB", 10)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("SUPERADMIN_NAME", "Super Admin")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			BaseURL: strings.TrimRight(v.GetString("BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:               v.GetString("REDIS_ADDR"),
			Password:           v.GetString("REDIS_PASSWORD"),
			DB:                 v.GetInt("REDIS_DB"),
			AvailabilityTTLSec: v.GetInt("REDIS_AVAILABILITY_TTL_SEC"),
		},
		Session: SessionConfig{
			CookieName:  v.GetString("SESSION_COOKIE_NAME"),
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
			Secure:      v.GetBool("SESSION_SECURE"),
		},
		Links: LinksConfig{
			ShareExpiryDays:    v.GetInt("SHARE_LINK_EXPIRY_DAYS"),
			BookingExpiryHours: v.GetInt("BOOKING_LINK_EXPIRY_HOURS"),
		},
		Slots: SlotsConfig{
			PoolOpen:        v.GetInt("SLOTS_POOL_OPEN"),
			PoolClose:       v.GetInt("SLOTS_POOL_CLOSE"),
			TennisOpen:      v.GetInt("SLOTS_TENNIS_OPEN"),
			TennisClose:     v.GetInt("SLOTS_TENNIS_CLOSE"),
			PickleballOpen:  v.GetInt("SLOTS_PICKLEBALL_OPEN"),
			PickleballClose: v.GetInt("SLOTS_PICKLEBALL_CLOSE"),
		},
		Upload: UploadConfig{
			Dir:       v.GetString("UPLOAD_DIR"),
			MaxSizeMB: v.GetInt64("UPLOAD_MAX_MB"),
		},
		RateLimit: RateLimitConfig{
			PerSecond:      v.GetFloat64("RATE_LIMIT_PER_SECOND"),
			Burst:          v.GetInt("RATE_LIMIT_BURST"),
			TrustedProxies: splitList(v.GetString("RATE_LIMIT_TRUSTED_PROXIES")),
		},
		SuperAdmin: SuperAdminConfig{
			Name:     v.GetString("SUPERADMIN_NAME"),
			Email:    v.GetString("SUPERADMIN_EMAIL"),
			Password: v.GetString("SUPERADMIN_PASSWORD"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
