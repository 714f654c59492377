package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(strings.ToUpper(key), "")
	}
	for _, key := range []string{"CONFIG_FILE", "POSTGRES_DSN", "REDIS_ADDR", "JWT_SECRET", "PAYMENT_KEY_ID", "PAYMENT_KEY_SECRET", "SMTP_HOST", "MAIL_FROM", "PUBSUB_PROJECT_ID", "PUBSUB_TOPIC_ID", "TEMPORAL_DISABLED"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, MailTransportLog, cfg.MailTransport)
	assert.Equal(t, 5*time.Second, cfg.NotificationTimeout)
	assert.Equal(t, 15*time.Second, cfg.RelayInterval)
	assert.Equal(t, 20, cfg.RelayBatchSize)
	assert.Equal(t, 8, cfg.RelayMaxAttempts)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "UTC", cfg.OrderTimezone.String())
	assert.False(t, cfg.TemporalDisabled)
}

func TestLoadConfigFileOverlaidByEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9000
postgres_dsn: postgres://file
notification_timeout: 2s
relay_batch_size: 50
order_timezone: Asia/Kolkata
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "1")
	t.Setenv("RELAY_MAX_ATTEMPTS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://file", cfg.PostgresDSN)
	assert.Equal(t, 2*time.Second, cfg.NotificationTimeout)
	assert.Equal(t, 50, cfg.RelayBatchSize)
	assert.Equal(t, 3, cfg.RelayMaxAttempts)
	assert.Equal(t, "Asia/Kolkata", cfg.OrderTimezone.String())
	assert.True(t, cfg.TemporalDisabled)
}

func TestLoadConfigRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown transport":     {"MAIL_TRANSPORT": "fax"},
		"smtp without host":     {"MAIL_TRANSPORT": "smtp", "MAIL_FROM": "noreply@pawhaven.in"},
		"pubsub without topic":  {"MAIL_TRANSPORT": "pubsub", "PUBSUB_PROJECT_ID": "p"},
		"bad timeout":           {"NOTIFICATION_TIMEOUT": "soon"},
		"zero batch":            {"RELAY_BATCH_SIZE": "0"},
		"bad timezone":          {"ORDER_TIMEZONE": "Mars/Olympus"},
		"half payment keys":     {"PAYMENT_KEY_ID": "rzp_test"},
		"missing config file":   {"CONFIG_FILE": "/does/not/exist.yaml"},
		"negative payment rate": {"PAYMENT_RATE_PER_MINUTE": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
