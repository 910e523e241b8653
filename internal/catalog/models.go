package catalog

import (
	"aqarna-listings/internal/i18n"
)

// TransactionType is buy or rent.
type TransactionType string

const (
	Buy  TransactionType = "buy"
	Rent TransactionType = "rent"
)

// ParseTransactionType accepts exactly "buy" or "rent".
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case Buy, Rent:
		return TransactionType(s), true
	}
	return "", false
}

// AreaInfo binds a property to a reference-data area.
type AreaInfo struct {
	ID string `json:"id"`
	En string `json:"en"`
	Ar string `json:"ar"`
}

func (a AreaInfo) Name() i18n.Text {
	return i18n.Text{En: a.En, Ar: a.Ar}
}

// Property is an immutable listing record. Lat and Lng may be absent or
// out of range and must go through the geo validator before mapping.
type Property struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Location     string          `json:"location"`
	Price        float64         `json:"price"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	Area         float64         `json:"area"`
	Image        string          `json:"image"`
	Type         TransactionType `json:"type"`
	PropertyType string          `json:"propertyType,omitempty"`
	Lat          *float64        `json:"lat,omitempty"`
	Lng          *float64        `json:"lng,omitempty"`
	TitleI18n    *i18n.Text      `json:"titleI18n,omitempty"`
	LocationI18n *i18n.Text      `json:"locationI18n,omitempty"`
	AreaInfo     *AreaInfo       `json:"areaInfo,omitempty"`
}

// AreaID returns the bound area id, or "" when unbound.
func (p Property) AreaID() string {
	if p.AreaInfo == nil {
		return ""
	}
	return p.AreaInfo.ID
}

func (p Property) LocalizedTitle(lang i18n.Language) string {
	return i18n.TText(p.TitleI18n, lang, p.Title)
}

func (p Property) LocalizedLocation(lang i18n.Language) string {
	return i18n.TText(p.LocationI18n, lang, p.Location)
}
