// Package urlinit seeds the listings filter state from the query string of
// the first page load.
package urlinit

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/listings/filter"
)

// Params are the recognized query parameters. Everything else is ignored.
type Params struct {
	Type         string `schema:"type"`
	Query        string `schema:"query"`
	MaxPrice     string `schema:"maxPrice"`
	PropertyType string `schema:"propertyType"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// ParseParams decodes the first value of each recognized key.
func ParseParams(values url.Values) Params {
	first := make(map[string][]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			first[k] = v[:1]
		}
	}
	var p Params
	// only string fields, so decoding cannot fail on user input
	_ = decoder.Decode(&p, first)
	return p
}

// Adapter applies the query string once per page lifetime.
type Adapter struct {
	done bool
}

// NewAdapter returns an adapter. done restores a persisted flag.
func NewAdapter(done bool) *Adapter {
	return &Adapter{done: done}
}

func (a *Adapter) Done() bool {
	return a.done
}

// Apply reconciles s with values on the first call and reports whether it
// did anything. Later calls are no-ops.
func (a *Adapter) Apply(values url.Values, s *filter.State) bool {
	if a.done {
		return false
	}
	a.done = true
	Reconcile(ParseParams(values), s)
	return true
}

// Reconcile applies p to s. Malformed values fall back silently.
func Reconcile(p Params, s *filter.State) {
	if t, ok := catalog.ParseTransactionType(p.Type); ok {
		s.SetTransactionType(t)
	}

	if q := strings.TrimSpace(p.Query); q != "" {
		s.SetQuery(q)
	}

	if price, ok := ParseMaxPrice(p.MaxPrice); ok {
		s.SetMaxPrice(&price)
	} else {
		s.SetMaxPrice(nil)
	}

	s.SetPropertyType(strings.ToLower(p.PropertyType))
}

// ParseMaxPrice accepts positive finite decimal numbers, with surrounding
// whitespace allowed.
func ParseMaxPrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, false
	}
	return v, true
}
