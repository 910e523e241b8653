// Package filter derives the visible property set from the listings page
// filter state.
package filter

import (
	"strings"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/geodata"
)

// Predicate is one facet of the conjunction a property must satisfy.
type Predicate struct {
	Name  string
	Match func(p catalog.Property) bool
}

// Predicates returns the facet predicates for s, in evaluation order.
func Predicates(s State, idx *geodata.Index) []Predicate {
	query := strings.ToLower(s.Query)
	governorateAreas := governorateAreaSet(s.GovernorateIDs, idx)
	selectedAreas := toSet(s.AreaIDs)

	return []Predicate{
		{"transactionType", func(p catalog.Property) bool {
			return p.Type == s.TransactionType
		}},
		{"query", func(p catalog.Property) bool {
			return query == "" ||
				strings.Contains(strings.ToLower(p.Title), query) ||
				strings.Contains(strings.ToLower(p.Location), query)
		}},
		{"maxPrice", func(p catalog.Property) bool {
			return s.MaxPrice == nil || p.Price <= *s.MaxPrice
		}},
		{"propertyType", func(p catalog.Property) bool {
			return matchesPropertyType(p, s.PropertyType)
		}},
		{"governorates", func(p catalog.Property) bool {
			if len(s.GovernorateIDs) == 0 {
				return true
			}
			_, ok := governorateAreas[p.AreaID()]
			return p.AreaID() != "" && ok
		}},
		{"areas", func(p catalog.Property) bool {
			if len(s.AreaIDs) == 0 {
				return true
			}
			_, ok := selectedAreas[p.AreaID()]
			return p.AreaID() != "" && ok
		}},
		{"bedsMin", func(p catalog.Property) bool {
			return s.BedsMin == nil || p.Bedrooms >= *s.BedsMin
		}},
		{"bathsMin", func(p catalog.Property) bool {
			return s.BathsMin == nil || p.Bathrooms >= *s.BathsMin
		}},
	}
}

// Filter returns the properties satisfying every predicate, in input order.
func Filter(properties []catalog.Property, s State, idx *geodata.Index) []catalog.Property {
	preds := Predicates(s, idx)
	out := make([]catalog.Property, 0, len(properties))
	for _, p := range properties {
		if matchAll(p, preds) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p passes s.
func Matches(p catalog.Property, s State, idx *geodata.Index) bool {
	return matchAll(p, Predicates(s, idx))
}

func matchAll(p catalog.Property, preds []Predicate) bool {
	for _, pred := range preds {
		if !pred.Match(p) {
			return false
		}
	}
	return true
}

// matchesPropertyType compares the structured type when the record has one.
// Records without it fall back to a title substring match with underscores
// read as spaces.
func matchesPropertyType(p catalog.Property, filterType string) bool {
	if filterType == AnyPropertyType || filterType == "" {
		return true
	}
	if p.PropertyType != "" {
		return strings.EqualFold(p.PropertyType, filterType)
	}
	normalized := strings.ReplaceAll(strings.ToLower(filterType), "_", " ")
	return strings.Contains(strings.ToLower(p.Title), normalized)
}

func governorateAreaSet(governorateIDs []string, idx *geodata.Index) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range governorateIDs {
		for _, a := range idx.AreasFor(id) {
			set[a.ID] = struct{}{}
		}
	}
	return set
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
