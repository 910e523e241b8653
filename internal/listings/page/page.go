// Package page owns the state of one listings page: filters, selection and
// the derived views, updated one event at a time.
package page

import (
	"net/url"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/geodata"
	"aqarna-listings/internal/listings/filter"
	"aqarna-listings/internal/listings/selection"
	"aqarna-listings/internal/listings/urlinit"
)

// Dependencies are shared by every page of the process.
type Dependencies struct {
	Catalog   *catalog.Catalog
	Geo       *geodata.Index
	Validator *geo.Validator
	Diag      logger.Logger
}

// Snapshot is the persisted form of a page.
type Snapshot struct {
	Filter         filter.State              `json:"filter"`
	Selection      selection.State           `json:"selection"`
	Mode           selection.InteractionMode `json:"mode"`
	URLInitialized bool                      `json:"urlInitialized"`
	Version        uint64                    `json:"version"`
}

type Page struct {
	deps    Dependencies
	state   filter.State
	coord   *selection.Coordinator
	url     *urlinit.Adapter
	effects *effectRecorder
	memo    memo
	version uint64
}

// New starts a page lifetime with default filters.
func New(deps Dependencies, mode selection.InteractionMode) *Page {
	return newPage(deps, Snapshot{
		Filter:    filter.DefaultState(),
		Selection: selection.State{MobileView: selection.ListView},
		Mode:      mode,
	})
}

// Restore rebuilds a page from a snapshot.
func Restore(deps Dependencies, snap Snapshot) *Page {
	return newPage(deps, snap)
}

func newPage(deps Dependencies, snap Snapshot) *Page {
	if deps.Diag == nil {
		deps.Diag = logger.NewNoOpLogger()
	}
	if deps.Validator == nil {
		deps.Validator = geo.NewValidator(deps.Diag)
	}
	if deps.Geo == nil {
		deps.Geo = geodata.Default()
	}
	rec := &effectRecorder{}
	p := &Page{
		deps:    deps,
		state:   normalizeState(snap.Filter, deps.Geo),
		url:     urlinit.NewAdapter(snap.URLInitialized),
		effects: rec,
		version: snap.Version,
	}
	rec.listed = p.listed
	p.coord = selection.New(snap.Mode, rec, rec, deps.Diag)
	p.coord.Restore(snap.Selection)
	return p
}

// normalizeState repairs a restored state: unknown governorates are dropped
// and an area survives only while its governorate is selected.
func normalizeState(s filter.State, idx *geodata.Index) filter.State {
	s = s.Clone()
	if _, ok := catalog.ParseTransactionType(string(s.TransactionType)); !ok {
		s.TransactionType = catalog.Buy
	}
	s.SetPropertyType(s.PropertyType)

	govs := make([]string, 0, len(s.GovernorateIDs))
	for _, id := range s.GovernorateIDs {
		if _, ok := idx.Governorate(id); ok && !contains(govs, id) {
			govs = append(govs, id)
		}
	}
	areas := make([]string, 0, len(s.AreaIDs))
	for _, id := range s.AreaIDs {
		if gov, ok := idx.GovernorateOf(id); ok && contains(govs, gov) && !contains(areas, id) {
			areas = append(areas, id)
		}
	}
	s.GovernorateIDs = govs
	s.AreaIDs = areas
	return s
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (p *Page) Snapshot() Snapshot {
	return Snapshot{
		Filter:         p.state.Clone(),
		Selection:      p.coord.State(),
		Mode:           p.coord.Mode(),
		URLInitialized: p.url.Done(),
		Version:        p.version,
	}
}

// State returns a copy of the filter state.
func (p *Page) State() filter.State {
	return p.state.Clone()
}

func (p *Page) Mode() selection.InteractionMode {
	return p.coord.Mode()
}

func (p *Page) Version() uint64 {
	return p.version
}

// Effects drains the view commands produced since the last call.
func (p *Page) Effects() []Effect {
	return p.effects.drain()
}

func (p *Page) mutate(fn func(s *filter.State)) {
	fn(&p.state)
	p.version++
}

// InitFromURL applies the initial query string. Only the first call of a
// page lifetime has any effect.
func (p *Page) InitFromURL(values url.Values) bool {
	var applied bool
	p.mutate(func(s *filter.State) { applied = p.url.Apply(values, s) })
	return applied
}

func (p *Page) SetTransactionType(t catalog.TransactionType) {
	p.mutate(func(s *filter.State) { s.SetTransactionType(t) })
}

// SwitchToBuy is offered when a rent search comes back empty.
func (p *Page) SwitchToBuy() {
	p.SetTransactionType(catalog.Buy)
}

func (p *Page) SetQuery(q string) {
	p.mutate(func(s *filter.State) { s.SetQuery(q) })
}

func (p *Page) SetMaxPrice(v *float64) {
	p.mutate(func(s *filter.State) { s.SetMaxPrice(v) })
}

func (p *Page) SetPropertyType(t string) {
	p.mutate(func(s *filter.State) { s.SetPropertyType(t) })
}

func (p *Page) SetBedsMin(v *int) {
	p.mutate(func(s *filter.State) { s.SetBedsMin(v) })
}

func (p *Page) SetBathsMin(v *int) {
	p.mutate(func(s *filter.State) { s.SetBathsMin(v) })
}

func (p *Page) ToggleGovernorate(id string) {
	p.mutate(func(s *filter.State) { s.ToggleGovernorate(id, p.deps.Geo) })
}

func (p *Page) ToggleArea(id string) {
	p.mutate(func(s *filter.State) { s.ToggleArea(id, p.deps.Geo) })
}

func (p *Page) ClearFilters() {
	p.mutate(func(s *filter.State) { s.ClearFilters() })
}

func (p *Page) ClearSearch() {
	p.mutate(func(s *filter.State) { s.ClearSearch() })
}

func (p *Page) ShowAll() {
	p.mutate(func(s *filter.State) { s.ShowAll() })
}

// Select picks a property from a list or map click.
func (p *Page) Select(id string) {
	p.coord.Select(id)
	p.version++
}

// listed reports whether id is part of the filtered list.
func (p *Page) listed(id string) bool {
	for _, prop := range p.Filtered() {
		if prop.ID == id {
			return true
		}
	}
	return false
}

func (p *Page) Deselect() {
	p.coord.Deselect()
	p.version++
}

// Hover reports pointer enter (id) or leave (empty id).
func (p *Page) Hover(id string) {
	p.coord.Hover(id)
	p.version++
}

func (p *Page) SetMobileView(v selection.MobileView) {
	p.coord.SetMobileView(v)
	p.version++
}
