package filter

import (
	"testing"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/geodata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== Test Helper Functions =====

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func area(id string) *catalog.AreaInfo {
	return &catalog.AreaInfo{ID: id, En: id, Ar: id}
}

func ids(props []catalog.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

// scenarioCatalog holds the two buy listings from the acceptance scenarios,
// without a structured property type, plus rent and unbound records.
func scenarioCatalog() []catalog.Property {
	return []catalog.Property{
		{ID: "A", Title: "Modern Apartment", Location: "Salmiya", Price: 1200, Bedrooms: 2, Bathrooms: 1, Area: 100, Type: catalog.Buy, AreaInfo: area("salmiya")},
		{ID: "B", Title: "Luxury Villa", Location: "Dasma", Price: 450000, Bedrooms: 5, Bathrooms: 4, Area: 600, Type: catalog.Buy, AreaInfo: area("dasma")},
	}
}

func richCatalog() []catalog.Property {
	return []catalog.Property{
		{ID: "1", Title: "Modern Apartment", Location: "Salmiya, Kuwait", Price: 85000, Bedrooms: 2, Bathrooms: 2, Type: catalog.Buy, PropertyType: "apartment", AreaInfo: area("salmiya")},
		{ID: "2", Title: "Luxury Villa", Location: "Dasma, Kuwait", Price: 450000, Bedrooms: 5, Bathrooms: 6, Type: catalog.Buy, PropertyType: "villa", AreaInfo: area("dasma")},
		{ID: "3", Title: "Residential Land", Location: "Yarmouk, Kuwait", Price: 210000, Type: catalog.Buy, PropertyType: "land", AreaInfo: area("yarmouk")},
		{ID: "4", Title: "Seafront Flat", Location: "Fintas, Kuwait", Price: 99000, Bedrooms: 2, Bathrooms: 1, Type: catalog.Buy, PropertyType: "apartment", AreaInfo: area("fintas")},
		{ID: "5", Title: "Garden Apartment", Location: "Kuwait", Price: 120000, Bedrooms: 3, Bathrooms: 2, Type: catalog.Buy, PropertyType: "apartment"},
		{ID: "6", Title: "Ground Villa Floor", Location: "Jabriya, Kuwait", Price: 900, Bedrooms: 3, Bathrooms: 3, Type: catalog.Rent, PropertyType: "villa_floor", AreaInfo: area("jabriya")},
		{ID: "7", Title: "Studio in Hawalli", Location: "Hawalli, Kuwait", Price: 320, Bedrooms: 1, Bathrooms: 1, Type: catalog.Rent, PropertyType: "apartment", AreaInfo: area("hawalli")},
		{ID: "8", Title: "Upper Villa Floor", Location: "Bneid Al-Gar", Price: 750, Bedrooms: 3, Bathrooms: 2, Type: catalog.Rent, AreaInfo: area("bneidAlGar")},
	}
}

// ===== Scenarios =====

func TestFilter_Scenarios(t *testing.T) {
	idx := geodata.Default()
	props := scenarioCatalog()

	tests := []struct {
		name     string
		mutate   func(s *State)
		expected []string
	}{
		{
			name:     "defaults return every buy listing",
			mutate:   func(s *State) {},
			expected: []string{"A", "B"},
		},
		{
			name:     "max price 2000",
			mutate:   func(s *State) { s.SetMaxPrice(f64(2000)) },
			expected: []string{"A"},
		},
		{
			name:     "property type villa via title",
			mutate:   func(s *State) { s.SetPropertyType("villa") },
			expected: []string{"B"},
		},
		{
			name:     "governorate hawalli owns salmiya",
			mutate:   func(s *State) { s.ToggleGovernorate("hawalli", idx) },
			expected: []string{"A"},
		},
		{
			name:     "rent excludes both",
			mutate:   func(s *State) { s.SetTransactionType(catalog.Rent) },
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultState()
			tt.mutate(&s)
			assert.Equal(t, tt.expected, ids(Filter(props, s, idx)))
		})
	}
}

func TestFilter_Predicates(t *testing.T) {
	idx := geodata.Default()
	props := richCatalog()

	tests := []struct {
		name     string
		state    func() State
		expected []string
	}{
		{
			name: "query matches title case-insensitively",
			state: func() State {
				s := DefaultState()
				s.SetQuery("VILLA")
				return s
			},
			expected: []string{"2"},
		},
		{
			name: "query matches location",
			state: func() State {
				s := DefaultState()
				s.SetQuery("fintas")
				return s
			},
			expected: []string{"4"},
		},
		{
			name: "structured property type beats title",
			state: func() State {
				s := DefaultState()
				s.SetPropertyType("apartment")
				return s
			},
			expected: []string{"1", "4", "5"},
		},
		{
			name: "villa_floor matches structured and legacy title",
			state: func() State {
				s := DefaultState()
				s.SetTransactionType(catalog.Rent)
				s.SetPropertyType("VILLA_FLOOR")
				return s
			},
			expected: []string{"6", "8"},
		},
		{
			name: "governorate excludes unbound properties",
			state: func() State {
				s := DefaultState()
				s.ToggleGovernorate("capital", idx)
				s.ToggleGovernorate("ahmadi", idx)
				return s
			},
			expected: []string{"2", "3", "4"},
		},
		{
			name: "area narrows within governorate",
			state: func() State {
				s := DefaultState()
				s.ToggleGovernorate("capital", idx)
				s.ToggleArea("dasma", idx)
				return s
			},
			expected: []string{"2"},
		},
		{
			name: "beds minimum treats missing as zero",
			state: func() State {
				s := DefaultState()
				s.SetBedsMin(intp(3))
				return s
			},
			expected: []string{"2", "5"},
		},
		{
			name: "beds zero keeps land",
			state: func() State {
				s := DefaultState()
				s.SetBedsMin(intp(0))
				return s
			},
			expected: []string{"1", "2", "3", "4", "5"},
		},
		{
			name: "baths minimum",
			state: func() State {
				s := DefaultState()
				s.SetTransactionType(catalog.Rent)
				s.SetBathsMin(intp(2))
				return s
			},
			expected: []string{"6", "8"},
		},
		{
			name: "conjunction of facets",
			state: func() State {
				s := DefaultState()
				s.SetMaxPrice(f64(150000))
				s.SetPropertyType("apartment")
				s.SetBedsMin(intp(3))
				return s
			},
			expected: []string{"5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(Filter(props, tt.state(), idx)))
		})
	}
}

// Every returned property satisfies every predicate and every excluded one
// fails at least one.
func TestFilter_SoundAndComplete(t *testing.T) {
	idx := geodata.Default()
	props := richCatalog()

	states := []State{DefaultState()}
	for _, tx := range []catalog.TransactionType{catalog.Buy, catalog.Rent} {
		for _, pt := range []string{"any", "villa", "apartment", "villa_floor", "land"} {
			for _, gov := range []string{"", "capital", "hawalli"} {
				for _, price := range []*float64{nil, f64(1000), f64(200000)} {
					s := DefaultState()
					s.SetTransactionType(tx)
					s.SetPropertyType(pt)
					if gov != "" {
						s.ToggleGovernorate(gov, idx)
					}
					s.SetMaxPrice(price)
					states = append(states, s)
				}
			}
		}
	}

	for _, s := range states {
		got := Filter(props, s, idx)
		in := toSet(ids(got))
		preds := Predicates(s, idx)
		for _, p := range props {
			all := true
			for _, pred := range preds {
				if !pred.Match(p) {
					all = false
					break
				}
			}
			_, included := in[p.ID]
			assert.Equal(t, all, included, "property %s state %+v", p.ID, s)
		}
	}
}

func TestFilter_IdempotentAndOrderPreserving(t *testing.T) {
	idx := geodata.Default()
	props := richCatalog()

	s := DefaultState()
	s.SetQuery("a")
	first := Filter(props, s, idx)
	second := Filter(first, s, idx)
	assert.Equal(t, ids(first), ids(second))

	// catalog order, not re-sorted by price
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(first))
}

func TestFilter_EmptyCatalog(t *testing.T) {
	got := Filter(nil, DefaultState(), geodata.Default())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatches(t *testing.T) {
	idx := geodata.Default()
	p := scenarioCatalog()[0]
	s := DefaultState()
	assert.True(t, Matches(p, s, idx))
	s.SetMaxPrice(f64(1000))
	assert.False(t, Matches(p, s, idx))
}
