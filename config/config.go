package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the word game server.
type Config struct {
	Server struct {
		Host           string        `mapstructure:"host"`
		Port           int           `mapstructure:"port"`
		ReadTimeout    time.Duration `mapstructure:"read_timeout"`
		WriteTimeout   time.Duration `mapstructure:"write_timeout"`
		AllowedOrigins []string      `mapstructure:"allowed_origins"`
	} `mapstructure:"server"`

	Database struct {
		// Path is the SQLite file (WORDGAME_DB_PATH, default: ./data/wordgame.db)
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Auth struct {
		BcryptCost        int           `mapstructure:"bcrypt_cost"`
		SessionSecret     string        `mapstructure:"session_secret"`
		SessionTTL        time.Duration `mapstructure:"session_ttl"`
		MinUsernameLength int           `mapstructure:"min_username_length"`
		MaxUsernameLength int           `mapstructure:"max_username_length"`
		MaxPasswordLength int           `mapstructure:"max_password_length"`
	} `mapstructure:"auth"`

	Game struct {
		MaxWrongGuesses int `mapstructure:"max_wrong_guesses"`
		StartPoints     int `mapstructure:"start_points"`
		LetterReward    int `mapstructure:"letter_reward"`
		LetterPenalty   int `mapstructure:"letter_penalty"`
		WordPenalty     int `mapstructure:"word_penalty"`
		MaxSessions     int `mapstructure:"max_sessions"`
	} `mapstructure:"game"`

	Corpus struct {
		// File optionally replaces the embedded lexicon with a YAML word: clue map.
		File      string `mapstructure:"file"`
		CacheSize int    `mapstructure:"cache_size"`
	} `mapstructure:"corpus"`

	Leaderboard struct {
		Backend   string `mapstructure:"backend"` // "sqlite" or "redis"
		Size      int    `mapstructure:"size"`
		RedisAddr string `mapstructure:"redis_addr"`
		RedisDB   int    `mapstructure:"redis_db"`
		RedisKey  string `mapstructure:"redis_key"`
	} `mapstructure:"leaderboard"`

	RateLimit struct {
		LoginPerMinute int `mapstructure:"login_per_minute"`
		LoginBurst     int `mapstructure:"login_burst"`
	} `mapstructure:"rate_limit"`

	Log struct {
		Level string `mapstructure:"level"`
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"log"`
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("database.path", "./data/wordgame.db")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.session_secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)
	v.SetDefault("auth.min_username_length", 3)
	v.SetDefault("auth.max_username_length", 50)
	v.SetDefault("auth.max_password_length", 72)
	v.SetDefault("game.max_wrong_guesses", 6)
	v.SetDefault("game.start_points", 100)
	v.SetDefault("game.letter_reward", 10)
	v.SetDefault("game.letter_penalty", 5)
	v.SetDefault("game.word_penalty", 10)
	v.SetDefault("game.max_sessions", 1000)
	v.SetDefault("corpus.file", "")
	v.SetDefault("corpus.cache_size", 64)
	v.SetDefault("leaderboard.backend", BackendSQLite)
	v.SetDefault("leaderboard.size", 10)
	v.SetDefault("leaderboard.redis_addr", "localhost:6379")
	v.SetDefault("leaderboard.redis_db", 0)
	v.SetDefault("leaderboard.redis_key", "wordgame:leaderboard")
	v.SetDefault("rate_limit.login_per_minute", 10)
	v.SetDefault("rate_limit.login_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

func loadFromEnv(v *viper.Viper) {
	v.SetEnvPrefix("WORDGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorter names for the settings people override most.
	_ = v.BindEnv("database.path", "WORDGAME_DB_PATH")
	_ = v.BindEnv("auth.session_secret", "WORDGAME_SESSION_SECRET")
	_ = v.BindEnv("server.port", "WORDGAME_PORT")
}

// Load reads configuration from path (if non-empty), ./config.yaml or
// ./config/config.yaml, then applies defaults and WORDGAME_* environment
// overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	loadFromEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Database.Path = filepath.Clean(cfg.Database.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("auth.session_secret must be at least 32 characters")
	}
	if c.Auth.MinUsernameLength < 1 || c.Auth.MaxUsernameLength < c.Auth.MinUsernameLength {
		return fmt.Errorf("invalid username length bounds %d..%d", c.Auth.MinUsernameLength, c.Auth.MaxUsernameLength)
	}
	if c.Game.MaxWrongGuesses <= 0 {
		return fmt.Errorf("game.max_wrong_guesses must be positive")
	}
	if c.Game.StartPoints <= 0 {
		return fmt.Errorf("game.start_points must be positive")
	}
	if c.Game.LetterReward <= 0 || c.Game.LetterPenalty <= 0 || c.Game.WordPenalty <= 0 {
		return fmt.Errorf("game.letter_reward, game.letter_penalty and game.word_penalty must be positive")
	}
	if c.Game.MaxSessions <= 0 {
		return fmt.Errorf("game.max_sessions must be positive")
	}
	if c.Corpus.CacheSize <= 0 {
		return fmt.Errorf("corpus.cache_size must be positive")
	}
	switch c.Leaderboard.Backend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown leaderboard backend %q", c.Leaderboard.Backend)
	}
	if c.RateLimit.LoginPerMinute <= 0 || c.RateLimit.LoginBurst <= 0 {
		return fmt.Errorf("rate_limit values must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
