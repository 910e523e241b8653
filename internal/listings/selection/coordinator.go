// Package selection keeps the list and the map agreeing on which property
// is selected or hovered.
package selection

import (
	"strings"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/geo"
)

// InteractionMode is resolved once per page load.
type InteractionMode string

const (
	// PointerHover is a hover-capable pointer on the wide layout.
	PointerHover InteractionMode = "pointer"
	// TouchPrimary is the narrow touch layout with a map/list toggle.
	TouchPrimary InteractionMode = "touch"
)

// ParseInteractionMode accepts "pointer" or "touch".
func ParseInteractionMode(s string) (InteractionMode, bool) {
	switch InteractionMode(strings.ToLower(strings.TrimSpace(s))) {
	case PointerHover:
		return PointerHover, true
	case TouchPrimary:
		return TouchPrimary, true
	}
	return "", false
}

// MobileView is the visible half of the touch layout.
type MobileView string

const (
	MapView  MobileView = "map"
	ListView MobileView = "list"
)

func ParseMobileView(s string) (MobileView, bool) {
	switch MobileView(s) {
	case MapView, ListView:
		return MobileView(s), true
	}
	return "", false
}

// Visibility is provided by the list renderer.
type Visibility interface {
	EnsureVisible(propertyID string)
}

// RailSync is provided by the map-view listing rail of the touch layout.
type RailSync interface {
	SyncTo(propertyID string)
}

// State is the serializable selection state.
type State struct {
	SelectedID string     `json:"selectedId,omitempty"`
	HoveredID  string     `json:"hoveredId,omitempty"`
	MobileView MobileView `json:"mobileView"`
}

type Coordinator struct {
	mode  InteractionMode
	state State
	list  Visibility
	rail  RailSync
	diag  logger.Logger
}

// New builds a coordinator. list and rail may be nil.
func New(mode InteractionMode, list Visibility, rail RailSync, diag logger.Logger) *Coordinator {
	if mode != TouchPrimary {
		mode = PointerHover
	}
	if diag == nil {
		diag = logger.NewNoOpLogger()
	}
	return &Coordinator{
		mode:  mode,
		state: State{MobileView: ListView},
		list:  list,
		rail:  rail,
		diag:  diag,
	}
}

// Restore replaces the selection state, e.g. after loading a session.
func (c *Coordinator) Restore(s State) {
	if _, ok := ParseMobileView(string(s.MobileView)); !ok {
		s.MobileView = ListView
	}
	if c.mode == TouchPrimary {
		s.HoveredID = ""
	}
	c.state = s
}

func (c *Coordinator) State() State {
	return c.state
}

func (c *Coordinator) Mode() InteractionMode {
	return c.mode
}

// Select marks id as selected and brings it into view. On the touch map
// view the rail scrolls itself.
func (c *Coordinator) Select(id string) {
	c.state.SelectedID = id
	if id == "" {
		return
	}
	switch {
	case c.mode == PointerHover, c.state.MobileView == ListView:
		if c.list != nil {
			c.list.EnsureVisible(id)
		}
	default:
		if c.rail != nil {
			c.rail.SyncTo(id)
		}
	}
}

// Deselect clears the selection.
func (c *Coordinator) Deselect() {
	c.state.SelectedID = ""
}

// Hover sets or clears (empty id) the hovered property. Touch mode ignores it.
func (c *Coordinator) Hover(id string) {
	if c.mode != PointerHover {
		return
	}
	c.state.HoveredID = id
}

// SetMobileView switches the touch layout between map and list.
func (c *Coordinator) SetMobileView(v MobileView) {
	if _, ok := ParseMobileView(string(v)); !ok {
		return
	}
	c.state.MobileView = v
}

// Highlighted reports whether the marker or card for id is emphasized.
func (c *Coordinator) Highlighted(id string) bool {
	return id != "" && (id == c.state.SelectedID || id == c.state.HoveredID)
}

// SelectedIn returns the selected property when it is part of filtered.
func (c *Coordinator) SelectedIn(filtered []catalog.Property) (catalog.Property, bool) {
	if c.state.SelectedID == "" {
		return catalog.Property{}, false
	}
	for _, p := range filtered {
		if p.ID == c.state.SelectedID {
			return p, true
		}
	}
	return catalog.Property{}, false
}

// FocusTarget is the point the map should pan to: the selected property,
// provided it survives the current filter and has valid coordinates.
func (c *Coordinator) FocusTarget(filtered []catalog.Property) (geo.Coordinates, bool) {
	p, ok := c.SelectedIn(filtered)
	if !ok {
		return geo.Coordinates{}, false
	}
	coords, ok := geo.SanitizeOptional(p.Lat, p.Lng)
	if !ok {
		c.diag.Warn("selected property has invalid coords", map[string]interface{}{
			"id":    p.ID,
			"title": p.Title,
		})
		return geo.Coordinates{}, false
	}
	return coords, true
}
