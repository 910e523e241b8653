// Package catalog holds the static property listings served by the site.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed properties.json
var propertiesJSON []byte

// Catalog is an ordered, read-only property collection.
type Catalog struct {
	properties []Property
	byID       map[string]int
}

// New builds a catalog over properties in the given order. Duplicate ids
// are rejected.
func New(properties []Property) (*Catalog, error) {
	c := &Catalog{
		properties: properties,
		byID:       make(map[string]int, len(properties)),
	}
	for i, p := range properties {
		if p.ID == "" {
			return nil, fmt.Errorf("property at index %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate property id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// MustNew is New for fixtures.
func MustNew(properties []Property) *Catalog {
	c, err := New(properties)
	if err != nil {
		panic(err)
	}
	return c
}

// Load parses a JSON array of properties.
func Load(raw []byte) (*Catalog, error) {
	var props []Property
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(props)
}

// Default returns the embedded listing catalog.
func Default() (*Catalog, error) {
	return Load(propertiesJSON)
}

// All returns the properties in catalog order. Callers must not mutate it.
func (c *Catalog) All() []Property {
	return c.properties
}

func (c *Catalog) Len() int {
	return len(c.properties)
}

// Find returns the property with id.
func (c *Catalog) Find(id string) (Property, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Property{}, false
	}
	return c.properties[i], true
}
