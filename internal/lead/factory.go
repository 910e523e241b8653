package lead

import (
	"context"
	"fmt"
	"time"

	"aqarna-listings/internal/common/aws"
	"aqarna-listings/internal/common/config"
)

// NewRelay builds the relay for the configured provider. The log provider
// has none.
func NewRelay(ctx context.Context, cfg config.LeadsConfig) (Relay, error) {
	switch cfg.Provider {
	case config.ProviderLog:
		return nil, nil
	case config.ProviderSES:
		client, err := aws.NewSESClient(ctx, cfg.SES.Region)
		if err != nil {
			return nil, err
		}
		return NewSESRelay(client), nil
	case config.ProviderSMTP:
		return NewSMTPRelay(SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
		}), nil
	case config.ProviderResend:
		return NewResendRelay(cfg.Resend.BaseURL, cfg.Resend.APIKey, time.Duration(cfg.Resend.Timeout)*time.Millisecond), nil
	}
	return nil, fmt.Errorf("unknown lead provider %q", cfg.Provider)
}

// NewNotifier returns the SMS notifier when enabled, nil otherwise.
func NewNotifier(ctx context.Context, cfg config.LeadsConfig, govs GovernorateNamer) (Notifier, error) {
	if !cfg.SMS.Enabled {
		return nil, nil
	}
	client, err := aws.NewSNSClient(ctx, cfg.SMS.Region)
	if err != nil {
		return nil, err
	}
	return NewSMSNotifier(client, cfg.SMS.PhoneNumber, govs), nil
}
