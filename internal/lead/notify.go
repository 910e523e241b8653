package lead

import (
	"context"
	"fmt"

	"aqarna-listings/internal/common/aws"
)

// Notifier sends a short alert once a lead has been delivered.
type Notifier interface {
	Notify(ctx context.Context, l Lead, reference string) error
}

type SMSNotifier struct {
	client *aws.SNSClient
	phone  string
	govs   GovernorateNamer
}

func NewSMSNotifier(client *aws.SNSClient, phone string, govs GovernorateNamer) *SMSNotifier {
	return &SMSNotifier{client: client, phone: phone, govs: govs}
}

func (n *SMSNotifier) Notify(ctx context.Context, l Lead, reference string) error {
	text := fmt.Sprintf("Aqarna lead %s: %s %s in %s/%s, %s KWD. Call %s (%s)",
		shortRef(reference), l.PurposeLabel(), l.PropertyType,
		n.govs.GovernorateName(l.Governorate), l.Area, formatNumber(l.Price), l.Phone, l.FullName)
	if _, err := n.client.SendSMS(ctx, n.phone, text); err != nil {
		return err
	}
	return nil
}

func shortRef(reference string) string {
	if len(reference) > 8 {
		return reference[:8]
	}
	return reference
}
