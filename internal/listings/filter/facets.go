package filter

import (
	"aqarna-listings/internal/geodata"
)

// ActiveFilterCount counts each non-default facet once, however many values
// it holds.
func ActiveFilterCount(s State) int {
	count := 0
	if s.PropertyType != AnyPropertyType && s.PropertyType != "" {
		count++
	}
	if len(s.GovernorateIDs) > 0 {
		count++
	}
	if len(s.AreaIDs) > 0 {
		count++
	}
	if s.BedsMin != nil {
		count++
	}
	if s.BathsMin != nil {
		count++
	}
	if s.MaxPrice != nil {
		count++
	}
	return count
}

// AvailableAreas is the de-duplicated union of the areas of every selected
// governorate, in selection order. No governorate means no areas.
func AvailableAreas(s State, idx *geodata.Index) []geodata.Area {
	if len(s.GovernorateIDs) == 0 {
		return []geodata.Area{}
	}
	seen := make(map[string]struct{})
	out := make([]geodata.Area, 0)
	for _, govID := range s.GovernorateIDs {
		for _, a := range idx.AreasFor(govID) {
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
