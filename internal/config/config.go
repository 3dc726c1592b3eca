// Package config reads process settings from the environment and the
// optional YAML seed file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPort                 = "8080"
	DefaultDBPath               = ":memory:"
	DefaultReminderPollInterval = 10 * time.Second

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Port                 string
	Location             *time.Location
	DBPath               string
	Environment          string
	LogLevel             string
	SecretKey            string
	LockPINHash          string
	TelegramBotToken     string
	TelegramChatID       string
	GeminiAPIKey         string
	ReminderPollInterval time.Duration
	SeedFile             string
}

// LockEnabled reports whether the API sits behind the PIN lock.
func (cfg Config) LockEnabled() bool {
	return cfg.LockPINHash != ""
}

// Load reads every setting. Invalid values fail, missing ones take their
// defaults. An empty SecretKey means the caller generates one per process.
func Load() (Config, error) {
	port, err := resolvePort()
	if err != nil {
		return Config{}, err
	}
	secretKey, err := resolveSecretKey()
	if err != nil {
		return Config{}, err
	}
	interval, err := resolvePollInterval()
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:                 port,
		Location:             loadLocation(getEnv("TZ", "Local")),
		DBPath:               getEnv("DB_PATH", DefaultDBPath),
		Environment:          getEnv("APP_ENV", "production"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
		SecretKey:            secretKey,
		LockPINHash:          strings.TrimSpace(os.Getenv("LOCK_PIN_HASH")),
		TelegramBotToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:       strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")),
		GeminiAPIKey:         strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ReminderPollInterval: interval,
		SeedFile:             strings.TrimSpace(os.Getenv("SEED_FILE")),
	}, nil
}

func resolvePort() (string, error) {
	raw := strings.TrimSpace(getEnv("PORT", DefaultPort))
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", nil
	}
	if _, insecure := insecureSecretKeys[secret]; insecure {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return secret, nil
}

func resolvePollInterval() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv("REMINDER_POLL_INTERVAL"))
	if raw == "" {
		return DefaultReminderPollInterval, nil
	}
	interval, err := time.ParseDuration(raw)
	if err != nil || interval <= 0 {
		return 0, fmt.Errorf("invalid REMINDER_POLL_INTERVAL %q", raw)
	}
	return interval, nil
}

func loadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
