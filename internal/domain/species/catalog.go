// Package species holds the static species calendar catalog: per
// species an optional sow-indoor, sow-outdoor and harvest month range
// plus display metadata and the plant type that selects its
// maintenance templates.
package species

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gardenplan/core/internal/domain/entities"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Species []entities.SpeciesCalendar `yaml:"species"`
}

// Catalog is an immutable species lookup. A miss is never an error for
// the planning engine; zones with unknown species are skipped.
type Catalog struct {
	byID    map[string]entities.SpeciesCalendar
	entries []entities.SpeciesCalendar
}

// NewCatalog builds a catalog from explicit entries.
func NewCatalog(entries []entities.SpeciesCalendar) *Catalog {
	c := &Catalog{byID: make(map[string]entities.SpeciesCalendar, len(entries)), entries: entries}
	for _, e := range entries {
		c.byID[e.ID] = e
	}
	return c
}

// LoadCatalog parses the embedded species calendar data.
func LoadCatalog() (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(catalogYAML, &f); err != nil {
		return nil, fmt.Errorf("parse species catalog: %w", err)
	}
	return NewCatalog(f.Species), nil
}

// SpeciesByID returns the calendar entry for a species id.
func (c *Catalog) SpeciesByID(id string) (entities.SpeciesCalendar, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// PlantType returns the plant type of a species, or empty for unknown
// species.
func (c *Catalog) PlantType(id string) string {
	return c.byID[id].PlantType
}

// All returns every catalog entry.
func (c *Catalog) All() []entities.SpeciesCalendar {
	return c.entries
}
