package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Kakao    KakaoConfig    `yaml:"kakao"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port                int     `yaml:"port"`
	RateLimitPerSec     float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst      int     `yaml:"rate_limit_burst"`
	AuthCacheTTLSeconds int     `yaml:"auth_cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// JWTConfig holds the token signing secrets and lifetimes.
type JWTConfig struct {
	AccessSecret     string        `yaml:"access_secret"`
	RefreshSecret    string        `yaml:"refresh_secret"`
	AccessTTLMinutes int           `yaml:"access_ttl_minutes"`
	RefreshTTLHours  int           `yaml:"refresh_ttl_hours"`
	AccessTTL        time.Duration `yaml:"-"` // Ignored by YAML parser
	RefreshTTL       time.Duration `yaml:"-"`
}

// KakaoConfig holds the OAuth client settings. The endpoint URLs are
// configurable so tests can point them at local servers.
type KakaoConfig struct {
	ClientID    string `yaml:"client_id"`
	RedirectURI string `yaml:"redirect_uri"`
	AuthURL     string `yaml:"auth_url"`
	TokenURL    string `yaml:"token_url"`
	UserInfoURL string `yaml:"user_info_url"`
}

// CalendarConfig holds the availability grid settings. These feed the
// codec and services at construction; nothing reads them ambiently.
type CalendarConfig struct {
	SlotsPerDay  int          `yaml:"slots_per_day"`
	WeekStart    string       `yaml:"week_start"`
	WeekStartDay time.Weekday `yaml:"-"` // Parsed from WeekStart
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.AuthCacheTTLSeconds <= 0 {
		cfg.Server.AuthCacheTTLSeconds = 60
	}

	if cfg.JWT.AccessTTLMinutes <= 0 {
		cfg.JWT.AccessTTLMinutes = 60
	}
	if cfg.JWT.RefreshTTLHours <= 0 {
		cfg.JWT.RefreshTTLHours = 14 * 24
	}
	cfg.JWT.AccessTTL = time.Duration(cfg.JWT.AccessTTLMinutes) * time.Minute
	cfg.JWT.RefreshTTL = time.Duration(cfg.JWT.RefreshTTLHours) * time.Hour

	if cfg.Kakao.AuthURL == "" {
		cfg.Kakao.AuthURL = "https://kauth.kakao.com/oauth/authorize"
	}
	if cfg.Kakao.TokenURL == "" {
		cfg.Kakao.TokenURL = "https://kauth.kakao.com/oauth/token"
	}
	if cfg.Kakao.UserInfoURL == "" {
		cfg.Kakao.UserInfoURL = "https://kapi.kakao.com/v2/user/me"
	}

	if cfg.Calendar.SlotsPerDay <= 0 {
		cfg.Calendar.SlotsPerDay = 30
	}
	day, err := parseWeekday(cfg.Calendar.WeekStart)
	if err != nil {
		log.Printf("calendar.week_start %q is invalid; defaulting to Sunday", cfg.Calendar.WeekStart)
		day = time.Sunday
	}
	cfg.Calendar.WeekStartDay = day

	return &cfg, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	if name == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(name, d.String()) {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}
