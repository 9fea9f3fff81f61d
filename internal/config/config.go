package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/encounter"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisURL    string

	// WorldFile is a JSON or YAML world definition. Empty means the
	// built-in Central Park world.
	WorldFile string

	ProximityRadius  float64 // meters
	ExitRadiusFactor float64

	HeroName      string
	HeroHitPoints int
	HeroStrength  int
	HeroGold      int

	MoveStep float64 // meters per key press in the console
}

func Load() (*Config, error) {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		WorldFile:   getEnv("WORLD_FILE", ""),
		HeroName:    getEnv("HERO_NAME", actor.DefaultName),
	}

	var err error
	if cfg.ProximityRadius, err = getFloat("PROXIMITY_RADIUS_METERS", encounter.DefaultRadiusMeters); err != nil {
		return nil, err
	}
	if cfg.ExitRadiusFactor, err = getFloat("EXIT_RADIUS_FACTOR", encounter.DefaultExitFactor); err != nil {
		return nil, err
	}
	if cfg.MoveStep, err = getFloat("MOVE_STEP_METERS", 10); err != nil {
		return nil, err
	}
	if cfg.HeroHitPoints, err = getInt("HERO_HIT_POINTS", actor.DefaultHitPoints); err != nil {
		return nil, err
	}
	if cfg.HeroStrength, err = getInt("HERO_STRENGTH", actor.DefaultStrength); err != nil {
		return nil, err
	}
	if cfg.HeroGold, err = getInt("HERO_GOLD", actor.DefaultGold); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ProximityRadius <= 0 {
		return fmt.Errorf("PROXIMITY_RADIUS_METERS must be positive, got %v", c.ProximityRadius)
	}
	if c.ExitRadiusFactor < 1 {
		return fmt.Errorf("EXIT_RADIUS_FACTOR must be at least 1, got %v", c.ExitRadiusFactor)
	}
	if c.MoveStep <= 0 {
		return fmt.Errorf("MOVE_STEP_METERS must be positive, got %v", c.MoveStep)
	}
	if c.HeroHitPoints <= 0 {
		return fmt.Errorf("HERO_HIT_POINTS must be positive, got %d", c.HeroHitPoints)
	}
	if c.HeroGold < 0 {
		return fmt.Errorf("HERO_GOLD cannot be negative, got %d", c.HeroGold)
	}
	return nil
}

// TriggerOptions returns the encounter geometry.
func (c *Config) TriggerOptions() encounter.Options {
	return encounter.Options{Radius: c.ProximityRadius, ExitFactor: c.ExitRadiusFactor}
}

// Hero builds the adventurer a new session starts with.
func (c *Config) Hero() *actor.Adventurer {
	return actor.NewAdventurer(c.HeroName, c.HeroHitPoints, c.HeroStrength, c.HeroGold)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}
