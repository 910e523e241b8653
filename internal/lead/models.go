// Package lead accepts "list your property" submissions and relays them to
// the sales inbox.
package lead

import "time"

const (
	PurposeSell = "sell"
	PurposeRent = "rent"
)

// Lead is a validated submission.
type Lead struct {
	FullName     string   `json:"fullName"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email,omitempty"`
	Purpose      string   `json:"purpose"`
	PropertyType string   `json:"propertyType"`
	Governorate  string   `json:"governorate"`
	Area         string   `json:"area"`
	Bedrooms     int      `json:"bedrooms,omitempty"`
	Bathrooms    int      `json:"bathrooms,omitempty"`
	Price        float64  `json:"price"`
	Notes        string   `json:"notes,omitempty"`
	ImageLinks   []string `json:"imageLinks,omitempty"`
	Lat          float64  `json:"lat"`
	Lng          float64  `json:"lng"`
}

// PurposeLabel is the label used in the email subject and body.
func (l Lead) PurposeLabel() string {
	if l.Purpose == PurposeSell {
		return "Buy"
	}
	return "Rent"
}

// Delivery modes reported back to the client.
const (
	ModeLog   = "log"
	ModeEmail = "email"
)

type Result struct {
	Ok        bool   `json:"ok"`
	Mode      string `json:"mode"`
	Reference string `json:"reference,omitempty"`
}

// Message is a composed plain-text email.
type Message struct {
	From      string
	To        string
	ReplyTo   string
	Subject   string
	Text      string
	Reference string
	CreatedAt time.Time
}
