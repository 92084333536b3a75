// internal/config/config.go
//
// Runtime configuration for every candymatch command.
// Responsibilities:
//   - Define the YAML schema (server, game, leaderboard, ssh, admin, log).
//   - Locate and parse the config file (see Load for the search order).
//   - Apply `.env` and environment overrides, the way the HTTP server has
//     always been configured in deployment.
//   - Validate values before any component starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/candymatch/assets"
	"github.com/robalobadob/candymatch/internal/match3"
)

type Config struct {
	Server      Server      `yaml:"server"`
	Game        Game        `yaml:"game"`
	Leaderboard Leaderboard `yaml:"leaderboard"`
	SSH         SSH         `yaml:"ssh"`
	Admin       Admin       `yaml:"admin"`
	Log         Log         `yaml:"log"`
}

type Server struct {
	Port          int           `yaml:"port"`
	ClientOrigin  string        `yaml:"client_origin"`
	JWTSecret     string        `yaml:"jwt_secret"`
	SubmitGrace   time.Duration `yaml:"submit_grace"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Addr is the listen address derived from Port.
func (s Server) Addr() string { return fmt.Sprintf(":%d", s.Port) }

type Game struct {
	Width     int           `yaml:"width"`
	Kinds     int           `yaml:"kinds"`
	Duration  time.Duration `yaml:"duration"`
	StepDelay time.Duration `yaml:"step_delay"`
	DailySalt string        `yaml:"daily_salt"`
}

// Board returns the engine configuration.
func (g Game) Board() match3.Config {
	return match3.Config{Width: g.Width, Kinds: g.Kinds}
}

type Leaderboard struct {
	Backend     string `yaml:"backend"` // sqlite | redis
	SQLitePath  string `yaml:"sqlite_path"`
	RedisURL    string `yaml:"redis_url"`
	RedisPrefix string `yaml:"redis_prefix"`
	Retain      int    `yaml:"retain"`
	MaxScore    int    `yaml:"max_score"`
	MaxName     int    `yaml:"max_name"`
	DefaultTop  int    `yaml:"default_top"`
	MaxTop      int    `yaml:"max_top"`
}

type SSH struct {
	Addr        string        `yaml:"addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

type Admin struct {
	User         string `yaml:"user"`
	PasswordHash string `yaml:"password_hash"`
}

type Log struct {
	Level string `yaml:"level"`
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

var ErrInvalid = errors.New("invalid config")

// Load reads configuration.
// Search order: customPath -> ~/.candymatch/config.yaml -> ./configs/config.yaml -> embedded default.
// The chosen file is layered over the embedded default, so partial files are
// fine. Environment variables (optionally from .env) are applied last.
func Load(customPath string) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return cfg, err
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
	} else if data, ok := firstReadable(userConfigPath(), filepath.Join("configs", "config.yaml")); ok {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func defaults() (Config, error) {
	var cfg Config
	data, err := assets.DefaultConfig()
	if err != nil {
		return cfg, fmt.Errorf("embedded config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("embedded config: %w", err)
	}
	return cfg, nil
}

// Default returns the embedded configuration without files or environment.
func Default() Config {
	cfg, err := defaults()
	if err != nil {
		panic(err)
	}
	return cfg
}

func firstReadable(paths ...string) ([]byte, bool) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if data, err := os.ReadFile(p); err == nil {
			return data, true
		}
	}
	return nil, false
}

// userConfigPath returns ~/.candymatch/config.yaml, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".candymatch", "config.yaml")
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalid, v)
		}
		cfg.Server.Port = p
	}
	setString(&cfg.Server.ClientOrigin, "CLIENT_ORIGIN")
	setString(&cfg.Server.JWTSecret, "JWT_SECRET")
	setString(&cfg.Leaderboard.Backend, "LEADERBOARD_BACKEND")
	setString(&cfg.Leaderboard.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Leaderboard.RedisURL, "REDIS_URL")
	setString(&cfg.Game.DailySalt, "DAILY_SALT")
	setString(&cfg.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("GAME_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: GAME_DURATION=%q", ErrInvalid, v)
		}
		cfg.Game.Duration = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects configurations no component can run with.
func (c Config) Validate() error {
	if err := c.Game.Board().Validate(); err != nil {
		return fmt.Errorf("%w: game: %w", ErrInvalid, err)
	}
	if c.Game.Duration <= 0 {
		return fmt.Errorf("%w: game.duration must be positive", ErrInvalid)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalid, c.Server.Port)
	}
	switch c.Leaderboard.Backend {
	case BackendSQLite:
		if c.Leaderboard.SQLitePath == "" {
			return fmt.Errorf("%w: leaderboard.sqlite_path is required", ErrInvalid)
		}
	case BackendRedis:
		if c.Leaderboard.RedisURL == "" {
			return fmt.Errorf("%w: leaderboard.redis_url is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown leaderboard backend %q", ErrInvalid, c.Leaderboard.Backend)
	}
	if c.Leaderboard.Retain < 1 || c.Leaderboard.MaxTop < 1 {
		return fmt.Errorf("%w: leaderboard limits must be positive", ErrInvalid)
	}
	return nil
}
