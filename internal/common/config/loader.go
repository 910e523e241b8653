package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderLog    = "log"
	ProviderSES    = "ses"
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"

	DefaultFromEmail = "Aqarna Leads <onboarding@resend.dev>"
)

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// over it and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")
	if root := findProjectRoot(); root != "" {
		v.AddConfigPath(filepath.Join(root, "configs"))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}
	return cfg, nil
}

// LoadFromFile reads a single yaml file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig honours the plain variable names the mail relay has
// always used, on top of the LEADS_* keys viper already maps.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Leads.Resend.APIKey == "" {
		if val := os.Getenv("RESEND_API_KEY"); val != "" {
			cfg.Leads.Resend.APIKey = val
		}
	}
	if cfg.Leads.ToEmail == "" {
		if val := os.Getenv("LEADS_TO_EMAIL"); val != "" {
			cfg.Leads.ToEmail = val
		}
	}
	if cfg.Leads.FromEmail == "" {
		if val := os.Getenv("LEADS_FROM_EMAIL"); val != "" {
			cfg.Leads.FromEmail = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "aqarna-listings"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Database.Redis.PoolSize == 0 {
		cfg.Database.Redis.PoolSize = 10
	}
	if cfg.Database.Redis.MinIdleConns == 0 {
		cfg.Database.Redis.MinIdleConns = 2
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "aqarna_sid"
	}
	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 3600
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = "memory"
	}

	if cfg.I18n.CookieName == "" {
		cfg.I18n.CookieName = "aqarna_lang"
	}
	if cfg.I18n.DefaultLanguage == "" {
		cfg.I18n.DefaultLanguage = "en"
	}

	if cfg.Leads.Provider == "" {
		cfg.Leads.Provider = ProviderLog
		if cfg.Leads.Resend.APIKey != "" {
			cfg.Leads.Provider = ProviderResend
		}
	}
	if cfg.Leads.FromEmail == "" {
		cfg.Leads.FromEmail = DefaultFromEmail
	}
	if cfg.Leads.SMTP.Port == 0 {
		cfg.Leads.SMTP.Port = 587
	}
	if cfg.Leads.Resend.BaseURL == "" {
		cfg.Leads.Resend.BaseURL = "https://api.resend.com"
	}
	if cfg.Leads.Resend.Timeout == 0 {
		cfg.Leads.Resend.Timeout = 10000
	}
	if cfg.Leads.SES.Region == "" {
		cfg.Leads.SES.Region = "me-south-1"
	}
	if cfg.Leads.SMS.Region == "" {
		cfg.Leads.SMS.Region = cfg.Leads.SES.Region
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.MetricsPath == "" {
		cfg.Observability.MetricsPath = "/metrics"
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Leads.Provider {
	case ProviderLog, ProviderSES, ProviderSMTP, ProviderResend:
	default:
		return fmt.Errorf("leads.provider must be one of log, ses, smtp, resend (got %q)", cfg.Leads.Provider)
	}

	switch cfg.Session.Store {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when session.store is redis")
		}
	default:
		return fmt.Errorf("session.store must be memory or redis (got %q)", cfg.Session.Store)
	}

	if cfg.Leads.RequireDelivery && cfg.Leads.Provider == ProviderLog {
		return fmt.Errorf("leads.require_delivery is set but leads.provider is log")
	}

	if cfg.Leads.Provider == ProviderSMTP && cfg.Leads.SMTP.Host == "" {
		return fmt.Errorf("leads.smtp.host is required for the smtp provider")
	}

	if cfg.Leads.SMS.Enabled && cfg.Leads.SMS.PhoneNumber == "" {
		return fmt.Errorf("leads.sms.phone_number is required when sms is enabled")
	}

	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}

	return nil
}

// IsProduction reports whether the app runs with production semantics.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.App.Environment) {
	case "production", "prod":
		return true
	}
	return false
}

// DeliveryConfigured reports whether the selected provider has what it
// needs to send mail. The log provider never delivers.
func (l LeadsConfig) DeliveryConfigured() bool {
	if l.ToEmail == "" {
		return false
	}
	switch l.Provider {
	case ProviderResend:
		return l.Resend.APIKey != ""
	case ProviderSMTP:
		return l.SMTP.Host != ""
	case ProviderSES:
		return l.SES.Region != ""
	}
	return false
}
