package geodata

// Index is a read-only lookup over a governorate hierarchy.
type Index struct {
	governorates      []Governorate
	byID              map[string]*Governorate
	areas             map[string]Area
	areaToGovernorate map[string]string
}

// NewIndex builds lookups over govs. An area id appearing under two
// governorates is bound to the first one.
func NewIndex(govs []Governorate) *Index {
	idx := &Index{
		governorates:      govs,
		byID:              make(map[string]*Governorate, len(govs)),
		areas:             make(map[string]Area),
		areaToGovernorate: make(map[string]string),
	}
	for i := range govs {
		g := &govs[i]
		idx.byID[g.ID] = g
		for _, a := range g.Areas {
			if _, seen := idx.areaToGovernorate[a.ID]; seen {
				continue
			}
			idx.areas[a.ID] = a
			idx.areaToGovernorate[a.ID] = g.ID
		}
	}
	return idx
}

var defaultIndex = NewIndex(Governorates)

// Default returns the index over the built-in Kuwait hierarchy.
func Default() *Index {
	return defaultIndex
}

func (x *Index) Governorates() []Governorate {
	return x.governorates
}

func (x *Index) Governorate(id string) (Governorate, bool) {
	g, ok := x.byID[id]
	if !ok {
		return Governorate{}, false
	}
	return *g, true
}

// AreasFor returns the areas of governorate id, or nil when unknown.
func (x *Index) AreasFor(id string) []Area {
	g, ok := x.byID[id]
	if !ok {
		return nil
	}
	return g.Areas
}

func (x *Index) Area(id string) (Area, bool) {
	a, ok := x.areas[id]
	return a, ok
}

// GovernorateOf returns the owning governorate id of an area.
func (x *Index) GovernorateOf(areaID string) (string, bool) {
	g, ok := x.areaToGovernorate[areaID]
	return g, ok
}

// GovernorateName returns the English name of id, or id itself when unknown.
func (x *Index) GovernorateName(id string) string {
	if g, ok := x.byID[id]; ok {
		return g.Name.En
	}
	return id
}
