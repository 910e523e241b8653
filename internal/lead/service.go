package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aqarna-listings/internal/common/config"
	"aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/common/metrics"
)

type ServiceDependencies struct {
	Relay    Relay
	Notifier Notifier
	Govs     GovernorateNamer
	Logger   logger.Logger
}

// Service validates, composes and relays leads.
type Service struct {
	leads      config.LeadsConfig
	production bool
	relay      Relay
	notifier   Notifier
	govs       GovernorateNamer
	logger     logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewService builds the service. Outside production every lead is logged
// and never sent.
func NewService(deps ServiceDependencies, leads config.LeadsConfig, production bool) *Service {
	return &Service{
		leads:      leads,
		production: production,
		relay:      deps.Relay,
		notifier:   deps.Notifier,
		govs:       deps.Govs,
		logger:     deps.Logger,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *Service) logOnly() bool {
	return !s.production || s.leads.Provider == config.ProviderLog
}

// Submit handles one raw request body.
func (s *Service) Submit(ctx context.Context, raw []byte) (*Result, error) {
	l, err := Parse(raw)
	if err != nil {
		metrics.LeadsSubmitted.WithLabelValues("rejected", "none").Inc()
		return nil, err
	}

	reference := s.newID()
	msg := Compose(l, s.govs, s.leads.FromEmail, s.leads.ToEmail, reference, s.now())
	fields := map[string]interface{}{
		"reference":    reference,
		"purpose":      l.Purpose,
		"propertyType": l.PropertyType,
		"governorate":  l.Governorate,
		"area":         l.Area,
	}

	if s.logOnly() {
		banner := strings.Repeat("=", 60)
		s.logger.Info("new property listing lead", map[string]interface{}{
			"reference": reference,
			"subject":   msg.Subject,
			"text":      banner + "\n" + msg.Text + "\n" + banner,
		})
		metrics.LeadsSubmitted.WithLabelValues("accepted", ModeLog).Inc()
		return &Result{Ok: true, Mode: ModeLog, Reference: reference}, nil
	}

	if !s.leads.DeliveryConfigured() || s.relay == nil {
		s.logger.Error("missing email configuration in production", map[string]interface{}{
			"reference": reference,
			"provider":  s.leads.Provider,
		})
		metrics.LeadsSubmitted.WithLabelValues("failed", ModeEmail).Inc()
		return nil, errors.NewEmailFailedError(s.leads.Provider, fmt.Errorf("delivery not configured"))
	}

	messageID, err := s.relay.Send(ctx, msg)
	if err != nil {
		fields["provider"] = s.relay.Name()
		fields["error"] = err.Error()
		s.logger.Error("lead delivery failed", fields)
		metrics.LeadsSubmitted.WithLabelValues("failed", ModeEmail).Inc()
		return nil, errors.NewEmailFailedError(s.relay.Name(), err).WithMetadata("reference", reference)
	}

	fields["provider"] = s.relay.Name()
	fields["messageId"] = messageID
	s.logger.Info("lead delivered", fields)
	metrics.LeadsSubmitted.WithLabelValues("accepted", ModeEmail).Inc()

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, l, reference); err != nil {
			s.logger.Warn("lead sms alert failed", map[string]interface{}{
				"reference": reference,
				"error":     err.Error(),
			})
		}
	}

	return &Result{Ok: true, Mode: ModeEmail, Reference: reference}, nil
}
