package lead

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"aqarna-listings/internal/common/validation"
)

// GovernorateNamer resolves a governorate id to its English name.
type GovernorateNamer interface {
	GovernorateName(id string) string
}

// Subject is the email subject line for l.
func Subject(l Lead, govs GovernorateNamer) string {
	return fmt.Sprintf("New Aqarna lead — %s %s — %s/%s",
		l.PurposeLabel(), l.PropertyType, govs.GovernorateName(l.Governorate), l.Area)
}

// Text is the plain-text email body for l.
func Text(l Lead, govs GovernorateNamer, submitted time.Time) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("New Property Listing Request")
	line("")
	line("Contact Information:")
	line("- Name: %s", l.FullName)
	line("- Phone: %s", l.Phone)
	if l.Email != "" {
		line("- Email: %s", l.Email)
	}
	line("")
	line("Property Details:")
	line("- Purpose: %s", l.PurposeLabel())
	line("- Property Type: %s", l.PropertyType)
	line("- Governorate: %s", govs.GovernorateName(l.Governorate))
	line("- Area: %s", l.Area)
	if l.Bedrooms > 0 {
		line("- Bedrooms: %d", l.Bedrooms)
	}
	if l.Bathrooms > 0 {
		line("- Bathrooms: %d", l.Bathrooms)
	}
	line("- Price: %s KWD", formatNumber(l.Price))
	line("")
	line("Location:")
	line("- Coordinates: %.5f, %.5f", l.Lat, l.Lng)
	line("- Maps: https://www.google.com/maps?q=%s,%s", formatNumber(l.Lat), formatNumber(l.Lng))
	if l.Notes != "" {
		line("")
		line("Notes:")
		line("%s", l.Notes)
	}
	if len(l.ImageLinks) > 0 {
		line("")
		line("Image Links:")
		for _, link := range l.ImageLinks {
			line("%s", link)
		}
	}
	line("")
	b.WriteString("Submitted: " + submitted.UTC().Format(time.RFC3339))
	return b.String()
}

// Compose builds the message for the configured inbox. The submitter's
// address becomes Reply-To only when it looks like an email address.
func Compose(l Lead, govs GovernorateNamer, from, to, reference string, now time.Time) Message {
	msg := Message{
		From:      from,
		To:        to,
		Subject:   Subject(l, govs),
		Text:      Text(l, govs, now),
		Reference: reference,
		CreatedAt: now,
	}
	if validation.ValidateEmail(l.Email) {
		msg.ReplyTo = l.Email
	}
	return msg
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
