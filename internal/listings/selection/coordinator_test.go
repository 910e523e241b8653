package selection

import (
	"testing"

	"aqarna-listings/internal/catalog"
	"aqarna-listings/internal/common/logger"
	"aqarna-listings/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== Test Helper Functions =====

type mockVisibility struct {
	mock.Mock
}

func (m *mockVisibility) EnsureVisible(propertyID string) {
	m.Called(propertyID)
}

type mockRail struct {
	mock.Mock
}

func (m *mockRail) SyncTo(propertyID string) {
	m.Called(propertyID)
}

func f64(v float64) *float64 { return &v }

func filtered() []catalog.Property {
	return []catalog.Property{
		{ID: "a", Lat: f64(29.33), Lng: f64(48.07)},
		{ID: "c", Lat: f64(91), Lng: f64(47)},
		{ID: "d"},
	}
}

// ===== Select =====

func TestCoordinator_Select(t *testing.T) {
	tests := []struct {
		name       string
		mode       InteractionMode
		view       MobileView
		expectList bool
		expectRail bool
	}{
		{"pointer scrolls list", PointerHover, ListView, true, false},
		{"pointer ignores mobile view", PointerHover, MapView, true, false},
		{"touch list scrolls list", TouchPrimary, ListView, true, false},
		{"touch map delegates to rail", TouchPrimary, MapView, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := &mockVisibility{}
			rail := &mockRail{}
			if tt.expectList {
				list.On("EnsureVisible", "a").Once()
			}
			if tt.expectRail {
				rail.On("SyncTo", "a").Once()
			}

			c := New(tt.mode, list, rail, logger.NewTestLogger(t))
			c.SetMobileView(tt.view)
			c.Select("a")

			assert.Equal(t, "a", c.State().SelectedID)
			list.AssertExpectations(t)
			rail.AssertExpectations(t)
			if !tt.expectList {
				list.AssertNotCalled(t, "EnsureVisible", mock.Anything)
			}
			if !tt.expectRail {
				rail.AssertNotCalled(t, "SyncTo", mock.Anything)
			}
		})
	}
}

func TestCoordinator_Select_NilCollaborators(t *testing.T) {
	c := New(TouchPrimary, nil, nil, nil)
	c.SetMobileView(MapView)
	assert.NotPanics(t, func() { c.Select("x") })
	assert.Equal(t, "x", c.State().SelectedID)
}

func TestCoordinator_Hover(t *testing.T) {
	t.Run("pointer tracks hover", func(t *testing.T) {
		c := New(PointerHover, nil, nil, nil)
		c.Hover("a")
		assert.Equal(t, "a", c.State().HoveredID)
		assert.True(t, c.Highlighted("a"))
		c.Hover("")
		assert.Empty(t, c.State().HoveredID)
		assert.False(t, c.Highlighted("a"))
	})

	t.Run("touch ignores hover", func(t *testing.T) {
		c := New(TouchPrimary, nil, nil, nil)
		c.Hover("a")
		assert.Empty(t, c.State().HoveredID)
	})
}

func TestCoordinator_Highlighted(t *testing.T) {
	c := New(PointerHover, nil, nil, nil)
	c.Select("a")
	c.Hover("b")
	assert.True(t, c.Highlighted("a"))
	assert.True(t, c.Highlighted("b"))
	assert.False(t, c.Highlighted("c"))
	assert.False(t, c.Highlighted(""))
}

// ===== Focus target =====

func TestCoordinator_FocusTarget(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		ok       bool
		expected geo.Coordinates
	}{
		{"valid selection", "a", true, geo.Coordinates{Lat: 29.33, Lng: 48.07}},
		{"invalid coordinates", "c", false, geo.Coordinates{}},
		{"missing coordinates", "d", false, geo.Coordinates{}},
		{"filtered out", "b", false, geo.Coordinates{}},
		{"nothing selected", "", false, geo.Coordinates{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(PointerHover, nil, nil, logger.NewTestLogger(t))
			c.Select(tt.selected)
			got, ok := c.FocusTarget(filtered())
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoordinator_FocusTarget_StaleAfterRefilter(t *testing.T) {
	c := New(PointerHover, nil, nil, nil)
	c.Select("a")
	_, ok := c.FocusTarget(filtered())
	require.True(t, ok)

	_, ok = c.FocusTarget(filtered()[1:])
	assert.False(t, ok)
	assert.Equal(t, "a", c.State().SelectedID, "selection itself is kept")
}

func TestCoordinator_Restore(t *testing.T) {
	c := New(TouchPrimary, nil, nil, nil)
	c.Restore(State{SelectedID: "a", HoveredID: "b", MobileView: "sideways"})
	assert.Equal(t, State{SelectedID: "a", MobileView: ListView}, c.State())

	c.Deselect()
	assert.Empty(t, c.State().SelectedID)
}

func TestParseInteractionMode(t *testing.T) {
	m, ok := ParseInteractionMode(" Touch ")
	require.True(t, ok)
	assert.Equal(t, TouchPrimary, m)

	_, ok = ParseInteractionMode("stylus")
	assert.False(t, ok)

	assert.Equal(t, PointerHover, New("stylus", nil, nil, nil).Mode())
}

func TestSetMobileView_IgnoresUnknown(t *testing.T) {
	c := New(TouchPrimary, nil, nil, nil)
	c.SetMobileView(MapView)
	c.SetMobileView("grid")
	assert.Equal(t, MapView, c.State().MobileView)
}
