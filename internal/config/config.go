package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/belmegatron/onehead/internal/constants"
	"github.com/belmegatron/onehead/internal/domain"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DiscordToken     string
	CommandPrefix    string
	DBPath           string
	StatusAddr       string
	LogLevel         string
	TopK             int
	SkillMode        domain.SkillMode
	NominationWindow time.Duration
	PickWindow       time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DiscordToken:     getEnv("DISCORD_TOKEN", ""),
		CommandPrefix:    getEnv("COMMAND_PREFIX", "!"),
		DBPath:           getEnv("DB_PATH", "onehead.db"),
		StatusAddr:       getEnv("STATUS_ADDR", ":8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TopK:             getEnvInt("BALANCE_TOP_K", constants.DefaultTopK),
		SkillMode:        domain.SkillMode(getEnv("SKILL_MODE", string(domain.SkillAdjusted))),
		NominationWindow: getEnvDuration("NOMINATION_WINDOW", constants.DefaultNominationWindow),
		PickWindow:       getEnvDuration("PICK_WINDOW", constants.DefaultPickWindow),
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("BALANCE_TOP_K must be at least 1, got %d", cfg.TopK)
	}
	if cfg.SkillMode != domain.SkillRaw && cfg.SkillMode != domain.SkillAdjusted {
		return nil, fmt.Errorf("SKILL_MODE must be %q or %q, got %q", domain.SkillRaw, domain.SkillAdjusted, cfg.SkillMode)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("status_addr", cfg.StatusAddr).
		Str("log_level", cfg.LogLevel).
		Int("top_k", cfg.TopK).
		Str("skill_mode", string(cfg.SkillMode)).
		Dur("nomination_window", cfg.NominationWindow).
		Dur("pick_window", cfg.PickWindow).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
