package lead

import (
	"encoding/json"
	"strings"

	apperrors "aqarna-listings/internal/common/errors"
	"aqarna-listings/internal/common/validation"
	"aqarna-listings/internal/geo"
)

const bodySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["fullName", "phone", "purpose", "propertyType", "governorate", "area", "price", "lat", "lng"],
  "properties": {
    "fullName":     {"type": "string", "pattern": "\\S"},
    "phone":        {"type": "string", "pattern": "\\S"},
    "email":        {"type": "string"},
    "purpose":      {"enum": ["sell", "rent"]},
    "propertyType": {"type": "string", "pattern": "\\S"},
    "governorate":  {"type": "string", "pattern": "\\S"},
    "area":         {"type": "string", "pattern": "\\S"},
    "bedrooms":     {"type": "integer", "minimum": 0},
    "bathrooms":    {"type": "integer", "minimum": 0},
    "price":        {"type": "number", "exclusiveMinimum": 0},
    "notes":        {"type": "string"},
    "imageLinks":   {"type": "array", "items": {"type": "string"}},
    "lat":          {"type": "number"},
    "lng":          {"type": "number"}
  }
}`

var schema = validation.MustCompile(bodySchema)

const MsgInvalidLocation = "Please select a valid location on the map."

// fieldChecks are reported in this order; the first failing field wins.
var fieldChecks = []struct {
	field   string
	message string
}{
	{"fullName", "Full name is required"},
	{"phone", "Phone is required"},
	{"purpose", "Purpose must be 'sell' or 'rent'"},
	{"propertyType", "Property type is required"},
	{"governorate", "Governorate is required"},
	{"area", "Area is required"},
	{"price", "Valid price is required"},
	{"lat", MsgInvalidLocation},
	{"lng", MsgInvalidLocation},
	{"bedrooms", "Bedrooms must be a whole number"},
	{"bathrooms", "Bathrooms must be a whole number"},
	{"email", "Email must be text"},
	{"notes", "Notes must be text"},
	{"imageLinks", "Image links must be a list of URLs"},
}

// Parse validates a raw request body and returns the normalized lead.
func Parse(raw []byte) (Lead, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Lead{}, apperrors.NewInvalidJSONError(err)
	}
	if _, ok := doc.(map[string]interface{}); !ok {
		doc = map[string]interface{}{}
	}

	result, err := schema.ValidateValue(doc)
	if err != nil {
		return Lead{}, apperrors.NewInternalError(err)
	}
	if !result.Valid {
		for _, c := range fieldChecks {
			if result.HasErrors(c.field) {
				return Lead{}, apperrors.NewValidationError(c.message).
					WithMetadata("field", c.field).
					WithMetadata("errors", result.GetErrorMessages())
			}
		}
		return Lead{}, apperrors.NewValidationError("Invalid request body").
			WithMetadata("errors", result.GetErrorMessages())
	}

	var l Lead
	if err := json.Unmarshal(raw, &l); err != nil {
		return Lead{}, apperrors.NewInvalidJSONError(err)
	}

	c, ok := geo.Sanitize(l.Lat, l.Lng)
	if !ok || !geo.InKuwait(c) {
		return Lead{}, apperrors.NewValidationError(MsgInvalidLocation).
			WithMetadata("lat", l.Lat).
			WithMetadata("lng", l.Lng)
	}

	return normalize(l), nil
}

func normalize(l Lead) Lead {
	l.FullName = strings.TrimSpace(l.FullName)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Email = strings.TrimSpace(l.Email)
	l.PropertyType = strings.TrimSpace(l.PropertyType)
	l.Governorate = strings.TrimSpace(l.Governorate)
	l.Area = strings.TrimSpace(l.Area)
	l.Notes = strings.TrimSpace(l.Notes)
	links := make([]string, 0, len(l.ImageLinks))
	for _, link := range l.ImageLinks {
		if link = strings.TrimSpace(link); link != "" {
			links = append(links, link)
		}
	}
	l.ImageLinks = links
	return l
}
