package lead

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"aqarna-listings/internal/common/aws"
	"aqarna-listings/internal/common/config"
	httpclient "aqarna-listings/internal/common/http"
)

// Relay delivers a composed message and returns the provider message id.
type Relay interface {
	Name() string
	Send(ctx context.Context, msg Message) (string, error)
}

// ==========================
// SES
// ==========================

type SESRelay struct {
	client *aws.SESClient
}

func NewSESRelay(client *aws.SESClient) *SESRelay {
	return &SESRelay{client: client}
}

func (r *SESRelay) Name() string { return config.ProviderSES }

func (r *SESRelay) Send(ctx context.Context, msg Message) (string, error) {
	return r.client.SendText(ctx, aws.TextEmail{
		From:    msg.From,
		To:      []string{msg.To},
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Body:    msg.Text,
	})
}

// ==========================
// Resend
// ==========================

type ResendRelay struct {
	client *httpclient.Client
}

func NewResendRelay(baseURL, apiKey string, timeout time.Duration) *ResendRelay {
	client := httpclient.NewClient(strings.TrimRight(baseURL, "/"), timeout).
		WithHeader("Authorization", "Bearer "+apiKey)
	return &ResendRelay{client: client}
}

func (r *ResendRelay) Name() string { return config.ProviderResend }

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func (r *ResendRelay) Send(ctx context.Context, msg Message) (string, error) {
	var out resendResponse
	err := r.client.PostJSON(ctx, "/emails", resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("resend send: %w", err)
	}
	return out.ID, nil
}

// ==========================
// SMTP
// ==========================

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
}

type SMTPRelay struct {
	cfg      SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPRelay(cfg SMTPConfig) *SMTPRelay {
	r := &SMTPRelay{cfg: cfg}
	if cfg.UseTLS {
		r.sendMail = r.sendWithTLS
	} else {
		r.sendMail = smtp.SendMail
	}
	return r
}

func (r *SMTPRelay) Name() string { return config.ProviderSMTP }

func (r *SMTPRelay) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled before sending email: %w", err)
	}

	var auth smtp.Auth
	if r.cfg.Username != "" && r.cfg.Password != "" {
		auth = smtp.PlainAuth("", r.cfg.Username, r.cfg.Password, r.cfg.Host)
	}

	messageID := r.messageID(msg)
	addr := fmt.Sprintf("%s:%d", r.cfg.Host, r.cfg.Port)
	if err := r.sendMail(addr, auth, envelopeAddress(msg.From), []string{envelopeAddress(msg.To)}, buildMIME(msg, messageID)); err != nil {
		return "", err
	}
	return messageID, nil
}

func (r *SMTPRelay) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: r.cfg.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}

func (r *SMTPRelay) messageID(msg Message) string {
	return fmt.Sprintf("<%s@%s>", msg.Reference, r.cfg.Host)
}

func buildMIME(msg Message, messageID string) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	if msg.ReplyTo != "" {
		b.WriteString("Reply-To: " + msg.ReplyTo + "\r\n")
	}
	b.WriteString("Subject: " + encodeHeader(msg.Subject) + "\r\n")
	b.WriteString("Message-ID: " + messageID + "\r\n")
	b.WriteString("Date: " + msg.CreatedAt.UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Text, "\n", "\r\n"))
	return []byte(b.String())
}

// envelopeAddress extracts the bare address from "Name <addr>".
func envelopeAddress(s string) string {
	if i := strings.LastIndex(s, "<"); i >= 0 {
		if j := strings.LastIndex(s, ">"); j > i {
			return s[i+1 : j]
		}
	}
	return strings.TrimSpace(s)
}

// encodeHeader applies RFC 2047 encoding to non-ASCII header values.
func encodeHeader(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.QEncoding.Encode("utf-8", s)
		}
	}
	return s
}
