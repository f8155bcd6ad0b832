// Package families provides the static plant-family lookup used by
// rotation checks. Families group species that share soil-borne pests
// and diseases, with a minimum number of years before replanting the
// same family in the same spot.
package families

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/gardenplan/core/internal/domain/entities"
)

//go:embed families.yaml
var familiesYAML []byte

type familyFile struct {
	Families []entities.PlantFamily `yaml:"families"`
}

// Registry is the immutable family lookup: plant id -> family and
// family id -> family. Safe for concurrent reads.
type Registry struct {
	byPlant  map[string]entities.PlantFamily
	byFamily map[string]entities.PlantFamily
	families []entities.PlantFamily
}

// NewRegistry builds a registry from explicit family definitions.
func NewRegistry(defs []entities.PlantFamily) *Registry {
	r := &Registry{
		byPlant:  make(map[string]entities.PlantFamily),
		byFamily: make(map[string]entities.PlantFamily, len(defs)),
		families: defs,
	}
	for _, f := range defs {
		r.byFamily[f.ID] = f
		for _, plantID := range f.Members {
			r.byPlant[plantID] = f
		}
	}
	return r
}

// LoadRegistry parses the embedded family definitions.
func LoadRegistry() (*Registry, error) {
	var f familyFile
	if err := yaml.Unmarshal(familiesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse family data: %w", err)
	}
	return NewRegistry(f.Families), nil
}

// PlantFamily returns the family a species belongs to; ok is false for
// species outside any rotation group.
func (r *Registry) PlantFamily(plantID string) (entities.PlantFamily, bool) {
	f, ok := r.byPlant[plantID]
	return f, ok
}

// FamilyByID looks a family up by its id.
func (r *Registry) FamilyByID(familyID string) (entities.PlantFamily, bool) {
	f, ok := r.byFamily[familyID]
	return f, ok
}

// SameFamily reports whether two species belong to the same rotation
// group. Species without a family never match anything.
func (r *Registry) SameFamily(plantA, plantB string) bool {
	fa, okA := r.byPlant[plantA]
	fb, okB := r.byPlant[plantB]
	return okA && okB && fa.ID == fb.ID
}

// AllFamilies returns every family definition.
func (r *Registry) AllFamilies() []entities.PlantFamily {
	return r.families
}
