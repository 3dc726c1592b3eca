package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "TZ", "DB_PATH", "APP_ENV", "LOG_LEVEL", "SECRET_KEY", "LOCK_PIN_HASH",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "GEMINI_API_KEY", "REMINDER_POLL_INTERVAL", "SEED_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, DefaultReminderPollInterval, cfg.ReminderPollInterval)
	assert.Empty(t, cfg.SecretKey)
	assert.False(t, cfg.LockEnabled())
	assert.NotNil(t, cfg.Location)
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TZ", "Asia/Shanghai")
	t.Setenv("DB_PATH", "data/daybloom.db")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOCK_PIN_HASH", " $2a$10$hash ")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("REMINDER_POLL_INTERVAL", "30s")
	t.Setenv("SEED_FILE", "seed.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Asia/Shanghai", cfg.Location.String())
	assert.Equal(t, "data/daybloom.db", cfg.DBPath)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "$2a$10$hash", cfg.LockPINHash)
	assert.True(t, cfg.LockEnabled())
	assert.Equal(t, "token", cfg.TelegramBotToken)
	assert.Equal(t, "42", cfg.TelegramChatID)
	assert.Equal(t, 30*time.Second, cfg.ReminderPollInterval)
	assert.Equal(t, "seed.yaml", cfg.SeedFile)
}

func TestResolvePort(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: "8080"},
		{raw: "9090", want: "9090"},
		{raw: " 443 ", want: "443"},
		{raw: "0", wantErr: true},
		{raw: "70000", wantErr: true},
		{raw: "not-a-number", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			t.Setenv("PORT", tc.raw)
			got, err := resolvePort()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	secret, err := resolveSecretKey()
	require.NoError(t, err)
	assert.Empty(t, secret, "unset key is generated by the caller")

	t.Setenv("SECRET_KEY", "change_me_in_production")
	_, err = resolveSecretKey()
	assert.Error(t, err)

	t.Setenv("SECRET_KEY", "too-short-secret")
	_, err = resolveSecretKey()
	assert.Error(t, err)

	valid := "0123456789abcdef0123456789abcdef"
	t.Setenv("SECRET_KEY", valid)
	secret, err = resolveSecretKey()
	require.NoError(t, err)
	assert.Equal(t, valid, secret)
}

func TestResolvePollInterval(t *testing.T) {
	t.Setenv("REMINDER_POLL_INTERVAL", "-5s")
	_, err := resolvePollInterval()
	assert.Error(t, err)

	t.Setenv("REMINDER_POLL_INTERVAL", "soon")
	_, err = resolvePollInterval()
	assert.Error(t, err)

	t.Setenv("REMINDER_POLL_INTERVAL", "1m")
	interval, err := resolvePollInterval()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, interval)
}

func TestLoadLocationFallsBackToLocal(t *testing.T) {
	assert.Equal(t, time.Local, loadLocation("Mars/Olympus_Mons"))
}
