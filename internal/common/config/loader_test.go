package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearLeadEnv(t *testing.T) {
	for _, key := range []string{"RESEND_API_KEY", "LEADS_TO_EMAIL", "LEADS_FROM_EMAIL", "REDIS_PASSWORD", "LEADS_PROVIDER", "SESSION_STORE", "APP_ENVIRONMENT"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearLeadEnv(t)
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  environment: development\n"))
	require.NoError(t, err)

	assert.Equal(t, "aqarna-listings", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeoutDuration())
	assert.Equal(t, time.Hour, cfg.Session.TTLDuration())
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "aqarna_lang", cfg.I18n.CookieName)
	assert.Equal(t, "en", cfg.I18n.DefaultLanguage)
	assert.Equal(t, ProviderLog, cfg.Leads.Provider)
	assert.Equal(t, DefaultFromEmail, cfg.Leads.FromEmail)
	assert.Equal(t, 587, cfg.Leads.SMTP.Port)
	assert.Equal(t, "me-south-1", cfg.Leads.SMS.Region)
	assert.Equal(t, "/metrics", cfg.Observability.MetricsPath)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromFile_ResendKeySelectsProvider(t *testing.T) {
	clearLeadEnv(t)
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("LEADS_TO_EMAIL", "leads@aqarna.test")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  environment: production\n"))
	require.NoError(t, err)

	assert.Equal(t, ProviderResend, cfg.Leads.Provider)
	assert.Equal(t, "re_test", cfg.Leads.Resend.APIKey)
	assert.True(t, cfg.Leads.DeliveryConfigured())
	assert.True(t, cfg.IsProduction())
}

func TestLoadFromFile_ExpandsEnvReferences(t *testing.T) {
	clearLeadEnv(t)
	t.Setenv("TEST_REDIS_ADDR", "cache.internal:6379")

	cfg, err := LoadFromFile(writeConfig(t, `
session:
  store: redis
database:
  redis:
    address: "${TEST_REDIS_ADDR}"
`))
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6379", cfg.Database.Redis.Address)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown provider",
			yaml:    "leads:\n  provider: pigeon\n",
			wantErr: "leads.provider",
		},
		{
			name:    "redis without address",
			yaml:    "session:\n  store: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "unknown store",
			yaml:    "session:\n  store: disk\n",
			wantErr: "session.store",
		},
		{
			name:    "require delivery with log provider",
			yaml:    "leads:\n  provider: log\n  require_delivery: true\n",
			wantErr: "require_delivery",
		},
		{
			name:    "smtp without host",
			yaml:    "leads:\n  provider: smtp\n",
			wantErr: "leads.smtp.host",
		},
		{
			name:    "sms without phone",
			yaml:    "leads:\n  sms:\n    enabled: true\n",
			wantErr: "phone_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearLeadEnv(t)
			_, err := LoadFromFile(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDeliveryConfigured(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*LeadsConfig)
		want  bool
	}{
		{"log never delivers", func(l *LeadsConfig) { l.Provider = ProviderLog }, false},
		{"missing recipient", func(l *LeadsConfig) { l.Provider = ProviderResend; l.Resend.APIKey = "k"; l.ToEmail = "" }, false},
		{"resend without key", func(l *LeadsConfig) { l.Provider = ProviderResend }, false},
		{"resend", func(l *LeadsConfig) { l.Provider = ProviderResend; l.Resend.APIKey = "k" }, true},
		{"smtp without host", func(l *LeadsConfig) { l.Provider = ProviderSMTP }, false},
		{"smtp", func(l *LeadsConfig) { l.Provider = ProviderSMTP; l.SMTP.Host = "mail.test" }, true},
		{"ses", func(l *LeadsConfig) { l.Provider = ProviderSES; l.SES.Region = "me-south-1" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LeadsConfig{ToEmail: "leads@aqarna.test"}
			tt.setup(&l)
			assert.Equal(t, tt.want, l.DeliveryConfigured())
		})
	}
}
