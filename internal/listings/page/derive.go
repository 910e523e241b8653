package page

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/geodata"
	"aqarna-listings/internal/listings/filter"
)

// MappableProperty is a filtered property whose coordinates passed the
// geo validator.
type MappableProperty struct {
	Property catalog.Property
	Coords   geo.Coordinates
}

// Stats counts recomputations, for memoization checks and metrics.
type Stats struct {
	FilterComputations   int
	MappableComputations int
	AreaComputations     int
}

// memo caches each derivation against the inputs it reads.
type memo struct {
	filterKey string
	filtered  []catalog.Property

	mappableKey string
	mappable    []MappableProperty

	areasKey string
	areas    []geodata.Area

	stats Stats
}

func filterKey(s filter.State) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

// Filtered returns the filtered properties, recomputed only when the filter
// state changed.
func (p *Page) Filtered() []catalog.Property {
	key := filterKey(p.state)
	if p.memo.filtered != nil && p.memo.filterKey == key {
		return p.memo.filtered
	}
	p.memo.filtered = filter.Filter(p.deps.Catalog.All(), p.state, p.deps.Geo)
	p.memo.filterKey = key
	p.memo.stats.FilterComputations++
	return p.memo.filtered
}

// Mappable is the subset of Filtered the map may render.
func (p *Page) Mappable() []MappableProperty {
	filtered := p.Filtered()
	key := p.memo.filterKey
	if p.memo.mappable != nil && p.memo.mappableKey == key {
		return p.memo.mappable
	}
	out := make([]MappableProperty, 0, len(filtered))
	for _, prop := range filtered {
		if c, ok := p.deps.Validator.Check(prop.ID, prop.Lat, prop.Lng); ok {
			out = append(out, MappableProperty{Property: prop, Coords: c})
		}
	}
	p.memo.mappable = out
	p.memo.mappableKey = key
	p.memo.stats.MappableComputations++
	return out
}

// AvailableAreas depends on the governorate selection only.
func (p *Page) AvailableAreas() []geodata.Area {
	key := strings.Join(p.state.GovernorateIDs, "\x00")
	if p.memo.areas != nil && p.memo.areasKey == key {
		return p.memo.areas
	}
	p.memo.areas = filter.AvailableAreas(p.state, p.deps.Geo)
	p.memo.areasKey = key
	p.memo.stats.AreaComputations++
	return p.memo.areas
}

func (p *Page) ActiveFilterCount() int {
	return filter.ActiveFilterCount(p.state)
}

// FocusTarget is the safe map focus for the current selection.
func (p *Page) FocusTarget() (geo.Coordinates, bool) {
	return p.coord.FocusTarget(p.Filtered())
}

func (p *Page) Highlighted(id string) bool {
	return p.coord.Highlighted(id)
}

func (p *Page) Stats() Stats {
	return p.memo.stats
}

// Fingerprint identifies what the client would render: the filtered id
// sequence plus selection and hover. Used as an ETag.
func (p *Page) Fingerprint() string {
	d := xxhash.New()
	for _, prop := range p.Filtered() {
		_, _ = d.WriteString(prop.ID)
		_, _ = d.WriteString("\x00")
	}
	sel := p.coord.State()
	_, _ = d.WriteString("|" + sel.SelectedID + "|" + sel.HoveredID + "|" + string(sel.MobileView))
	_, _ = d.WriteString("|" + filterKey(p.state))
	return strconv.FormatUint(d.Sum64(), 16)
}
