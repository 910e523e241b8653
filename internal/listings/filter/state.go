package filter

import (
	"math"
	"strings"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/geodata"
)

// State is the filter state of one listings page. Governorate and area
// selections keep insertion order.
type State struct {
	TransactionType catalog.TransactionType `json:"transactionType"`
	Query           string                  `json:"query"`
	MaxPrice        *float64                `json:"maxPrice,omitempty"`
	PropertyType    string                  `json:"propertyType"`
	GovernorateIDs  []string                `json:"governorateIds"`
	AreaIDs         []string                `json:"areaIds"`
	BedsMin         *int                    `json:"bedsMin,omitempty"`
	BathsMin        *int                    `json:"bathsMin,omitempty"`
}

func DefaultState() State {
	return State{
		TransactionType: catalog.Buy,
		PropertyType:    AnyPropertyType,
		GovernorateIDs:  []string{},
		AreaIDs:         []string{},
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.GovernorateIDs = append([]string{}, s.GovernorateIDs...)
	out.AreaIDs = append([]string{}, s.AreaIDs...)
	if s.MaxPrice != nil {
		v := *s.MaxPrice
		out.MaxPrice = &v
	}
	if s.BedsMin != nil {
		v := *s.BedsMin
		out.BedsMin = &v
	}
	if s.BathsMin != nil {
		v := *s.BathsMin
		out.BathsMin = &v
	}
	return out
}

// SetTransactionType switches buy/rent and drops a property type the new
// transaction type does not offer.
func (s *State) SetTransactionType(t catalog.TransactionType) {
	if t != catalog.Buy && t != catalog.Rent {
		return
	}
	s.TransactionType = t
	s.reconcilePropertyType()
}

func (s *State) SetQuery(q string) {
	s.Query = q
}

// SetMaxPrice keeps only positive finite ceilings; anything else clears it.
func (s *State) SetMaxPrice(v *float64) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		s.MaxPrice = nil
		return
	}
	p := *v
	s.MaxPrice = &p
}

// SetPropertyType lower-cases t. Empty selects any.
func (s *State) SetPropertyType(t string) {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		t = AnyPropertyType
	}
	s.PropertyType = t
	s.reconcilePropertyType()
}

// SetBedsMin sets the minimum bedrooms. Nil or negative clears it.
func (s *State) SetBedsMin(v *int) {
	s.BedsMin = nonNegative(v)
}

func (s *State) SetBathsMin(v *int) {
	s.BathsMin = nonNegative(v)
}

// ToggleGovernorate selects or deselects id. Deselecting also drops every
// selected area owned by id; areas of other governorates stay selected.
func (s *State) ToggleGovernorate(id string, idx *geodata.Index) {
	if i := indexOf(s.GovernorateIDs, id); i >= 0 {
		s.GovernorateIDs = removeAt(s.GovernorateIDs, i)
		kept := make([]string, 0, len(s.AreaIDs))
		for _, areaID := range s.AreaIDs {
			if owner, ok := idx.GovernorateOf(areaID); ok && owner == id {
				continue
			}
			kept = append(kept, areaID)
		}
		s.AreaIDs = kept
		return
	}
	if _, ok := idx.Governorate(id); !ok {
		return
	}
	s.GovernorateIDs = append(s.GovernorateIDs, id)
}

// ToggleArea deselects a selected area, or selects an area offered by the
// current governorate selection. Other ids are ignored.
func (s *State) ToggleArea(id string, idx *geodata.Index) {
	if i := indexOf(s.AreaIDs, id); i >= 0 {
		s.AreaIDs = removeAt(s.AreaIDs, i)
		return
	}
	for _, a := range AvailableAreas(*s, idx) {
		if a.ID == id {
			s.AreaIDs = append(s.AreaIDs, id)
			return
		}
	}
}

// ClearFilters resets every facet but keeps the query and transaction type.
func (s *State) ClearFilters() {
	s.GovernorateIDs = []string{}
	s.AreaIDs = []string{}
	s.MaxPrice = nil
	s.PropertyType = AnyPropertyType
	s.BedsMin = nil
	s.BathsMin = nil
}

// ClearSearch is ClearFilters plus an empty query.
func (s *State) ClearSearch() {
	s.ClearFilters()
	s.Query = ""
}

// ShowAll resets to the default state.
func (s *State) ShowAll() {
	*s = DefaultState()
}

func (s *State) reconcilePropertyType() {
	if s.PropertyType == "" {
		s.PropertyType = AnyPropertyType
		return
	}
	if s.PropertyType == AnyPropertyType {
		return
	}
	if !IsValidPropertyType(s.PropertyType, s.TransactionType) {
		s.PropertyType = AnyPropertyType
	}
}

func nonNegative(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	n := *v
	return &n
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeAt(ids []string, i int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}
