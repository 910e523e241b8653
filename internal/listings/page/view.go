package page

import (
	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/geo"
	"aqarna-listings/internal/i18n"
	"aqarna-listings/internal/listings/filter"
	"aqarna-listings/internal/listings/selection"
)

// Marker colors.
const (
	ColorSelected = "#1D4ED8"
	ColorBuy      = "#2563EB"
	ColorRent     = "#60A5FA"
)

// Card is one entry of the results list.
type Card struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Location    string                  `json:"location"`
	Price       float64                 `json:"price"`
	PriceLabel  string                  `json:"priceLabel"`
	Bedrooms    int                     `json:"bedrooms"`
	Bathrooms   int                     `json:"bathrooms"`
	Area        float64                 `json:"area"`
	Image       string                  `json:"image"`
	Type        catalog.TransactionType `json:"type"`
	AreaName    string                  `json:"areaName,omitempty"`
	Highlighted bool                    `json:"highlighted"`
	Selected    bool                    `json:"selected"`
	Mappable    bool                    `json:"mappable"`
}

type AreaOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

type GovernorateOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

type PropertyTypeOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// View is everything the listings page renders besides the map.
type View struct {
	Language          i18n.Language             `json:"language"`
	Dir               string                    `json:"dir"`
	Filter            filter.State              `json:"filter"`
	Properties        []Card                    `json:"properties"`
	Count             int                       `json:"count"`
	ActiveFilterCount int                       `json:"activeFilterCount"`
	Governorates      []GovernorateOption       `json:"governorates"`
	AvailableAreas    []AreaOption              `json:"availableAreas"`
	PropertyTypes     []PropertyTypeOption      `json:"propertyTypes"`
	Selection         selection.State           `json:"selection"`
	Mode              selection.InteractionMode `json:"mode"`
	Focus             *geo.Coordinates          `json:"focus,omitempty"`
	SuggestBuy        bool                      `json:"suggestBuy"`
	Effects           []Effect                  `json:"effects"`
	Fingerprint       string                    `json:"fingerprint"`
}

type Marker struct {
	ID          string                  `json:"id"`
	Lat         float64                 `json:"lat"`
	Lng         float64                 `json:"lng"`
	Geohash     string                  `json:"geohash"`
	Title       string                  `json:"title"`
	PriceLabel  string                  `json:"priceLabel"`
	Type        catalog.TransactionType `json:"type"`
	Highlighted bool                    `json:"highlighted"`
	Selected    bool                    `json:"selected"`
	Color       string                  `json:"color"`
}

// MapView is the marker layer for the current filter.
type MapView struct {
	Markers  []Marker         `json:"markers"`
	Center   geo.Coordinates  `json:"center"`
	Zoom     int              `json:"zoom"`
	Focus    *geo.Coordinates `json:"focus,omitempty"`
	Clusters []geo.Cluster    `json:"clusters,omitempty"`
}

// View renders the page in lang and drains pending effects.
func (p *Page) View(lang i18n.Language) View {
	filtered := p.Filtered()
	mappable := make(map[string]struct{}, len(filtered))
	for _, m := range p.Mappable() {
		mappable[m.Property.ID] = struct{}{}
	}
	sel := p.coord.State()

	cards := make([]Card, 0, len(filtered))
	for _, prop := range filtered {
		_, onMap := mappable[prop.ID]
		card := Card{
			ID:          prop.ID,
			Title:       prop.LocalizedTitle(lang),
			Location:    prop.LocalizedLocation(lang),
			Price:       prop.Price,
			PriceLabel:  i18n.FormatPrice(prop.Price, prop.Type == catalog.Rent, lang),
			Bedrooms:    prop.Bedrooms,
			Bathrooms:   prop.Bathrooms,
			Area:        prop.Area,
			Image:       prop.Image,
			Type:        prop.Type,
			Highlighted: p.coord.Highlighted(prop.ID),
			Selected:    sel.SelectedID == prop.ID,
			Mappable:    onMap,
		}
		if prop.AreaInfo != nil {
			card.AreaName = prop.AreaInfo.Name().Get(lang)
		}
		cards = append(cards, card)
	}

	v := View{
		Language:          lang,
		Dir:               lang.Dir(),
		Filter:            p.state.Clone(),
		Properties:        cards,
		Count:             len(filtered),
		ActiveFilterCount: p.ActiveFilterCount(),
		Governorates:      p.governorateOptions(lang),
		AvailableAreas:    p.areaOptions(lang),
		PropertyTypes:     p.propertyTypeOptions(lang),
		Selection:         sel,
		Mode:              p.coord.Mode(),
		SuggestBuy:        len(filtered) == 0 && p.state.TransactionType == catalog.Rent,
		Effects:           p.Effects(),
		Fingerprint:       p.Fingerprint(),
	}
	if c, ok := p.FocusTarget(); ok {
		v.Focus = &c
	}
	return v
}

func (p *Page) governorateOptions(lang i18n.Language) []GovernorateOption {
	selected := make(map[string]bool, len(p.state.GovernorateIDs))
	for _, id := range p.state.GovernorateIDs {
		selected[id] = true
	}
	govs := p.deps.Geo.Governorates()
	out := make([]GovernorateOption, 0, len(govs))
	for _, g := range govs {
		out = append(out, GovernorateOption{ID: g.ID, Name: g.Name.Get(lang), Selected: selected[g.ID]})
	}
	return out
}

func (p *Page) areaOptions(lang i18n.Language) []AreaOption {
	selected := make(map[string]bool, len(p.state.AreaIDs))
	for _, id := range p.state.AreaIDs {
		selected[id] = true
	}
	areas := p.AvailableAreas()
	out := make([]AreaOption, 0, len(areas))
	for _, a := range areas {
		out = append(out, AreaOption{ID: a.ID, Name: a.Name.Get(lang), Selected: selected[a.ID]})
	}
	return out
}

func (p *Page) propertyTypeOptions(lang i18n.Language) []PropertyTypeOption {
	types := append([]string{filter.AnyPropertyType}, filter.PropertyTypes(p.state.TransactionType)...)
	out := make([]PropertyTypeOption, 0, len(types))
	for _, t := range types {
		out = append(out, PropertyTypeOption{
			Value:    t,
			Label:    i18n.T(propertyTypeKey(t), lang),
			Selected: p.state.PropertyType == t,
		})
	}
	return out
}

// MapView renders markers for the mappable subset. clusterPrecision of zero
// disables clustering.
func (p *Page) MapView(lang i18n.Language, clusterPrecision uint) MapView {
	mappable := p.Mappable()
	sel := p.coord.State()

	markers := make([]Marker, 0, len(mappable))
	coords := make([]geo.Coordinates, 0, len(mappable))
	points := make([]geo.Point, 0, len(mappable))
	for _, m := range mappable {
		selected := sel.SelectedID == m.Property.ID
		markers = append(markers, Marker{
			ID:          m.Property.ID,
			Lat:         m.Coords.Lat,
			Lng:         m.Coords.Lng,
			Geohash:     geo.Geohash(m.Coords, geo.MarkerPrecision),
			Title:       m.Property.LocalizedTitle(lang),
			PriceLabel:  i18n.FormatPrice(m.Property.Price, m.Property.Type == catalog.Rent, lang),
			Type:        m.Property.Type,
			Highlighted: p.coord.Highlighted(m.Property.ID),
			Selected:    selected,
			Color:       markerColor(m.Property.Type, selected),
		})
		coords = append(coords, m.Coords)
		points = append(points, geo.Point{ID: m.Property.ID, Coords: m.Coords})
	}

	mv := MapView{
		Markers: markers,
		Center:  geo.Center(coords),
		Zoom:    geo.DefaultZoom,
	}
	if c, ok := p.FocusTarget(); ok {
		mv.Focus = &c
	}
	if clusterPrecision > 0 {
		if clusterPrecision > geo.MaxClusterPrecision {
			clusterPrecision = geo.MaxClusterPrecision
		}
		mv.Clusters = geo.ClusterPoints(points, clusterPrecision)
	}
	return mv
}

func markerColor(t catalog.TransactionType, selected bool) string {
	switch {
	case selected:
		return ColorSelected
	case t == catalog.Rent:
		return ColorRent
	default:
		return ColorBuy
	}
}

// propertyTypeKey maps a filter value to its dictionary key.
func propertyTypeKey(t string) string {
	switch t {
	case filter.AnyPropertyType:
		return "any"
	case "villa_floor":
		return "villaFloor"
	}
	return t
}
