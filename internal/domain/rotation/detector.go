// Package rotation detects crop-rotation conflicts between a garden's
// current zones and its archived past seasons.
package rotation

import (
	"sort"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/domain/families"
)

// overlapToleranceCm ignores overlaps shallower than this, so a zone
// nudged a few centimeters between seasons still counts as the same
// spot without neighbouring beds triggering each other.
const overlapToleranceCm = 10.0

// Detector runs rotation checks against a family registry. Read-only
// after construction.
type Detector struct {
	families *families.Registry
}

// NewDetector creates a detector over a family registry.
func NewDetector(reg *families.Registry) *Detector {
	return &Detector{families: reg}
}

// CheckRotation finds the rotation conflict for a single zone, if any.
// A conflict exists when an archived zone of the same family overlaps
// this zone's box and its season falls inside the family's rotation
// window: 0 < currentYear - seasonYear <= rotationYears.
//
// Archives are scanned nearest-qualifying-year-first, so when several
// past seasons conflict the most recent one wins deterministically.
func (d *Detector) CheckRotation(zone *entities.Zone, archives []entities.SeasonArchive, currentYear int) *entities.RotationWarning {
	family, ok := d.families.PlantFamily(zone.PlantID)
	if !ok {
		return nil
	}

	for _, archive := range sortByYearDesc(archives) {
		age := currentYear - archive.SeasonYear
		if age <= 0 || age > family.RotationYears {
			continue
		}
		for _, old := range archive.Zones {
			if !boxesOverlap(zone.X, zone.Y, zone.WidthCm, zone.HeightCm, old.X, old.Y, old.WidthCm, old.HeightCm) {
				continue
			}
			if old.FamilyID != family.ID {
				continue
			}
			return &entities.RotationWarning{
				ZoneID:              zone.ID,
				PlantID:             zone.PlantID,
				FamilyID:            family.ID,
				FamilyName:          family.Name,
				ConflictYear:        archive.SeasonYear,
				ConflictSpeciesName: old.SpeciesName,
				RotationYears:       family.RotationYears,
			}
		}
	}
	return nil
}

// AllRotationWarnings applies the per-zone check to every zone.
func (d *Detector) AllRotationWarnings(zones []entities.Zone, archives []entities.SeasonArchive, currentYear int) []entities.RotationWarning {
	var out []entities.RotationWarning
	for i := range zones {
		if w := d.CheckRotation(&zones[i], archives, currentYear); w != nil {
			out = append(out, *w)
		}
	}
	return out
}

// PositionHistory returns every archived planting overlapping a
// position, most recent season first. Display data, not conflict
// logic: family and window are not considered.
func (d *Detector) PositionHistory(x, y, w, h float64, archives []entities.SeasonArchive) []entities.PositionRecord {
	var out []entities.PositionRecord
	for _, archive := range sortByYearDesc(archives) {
		for _, old := range archive.Zones {
			if boxesOverlap(x, y, w, h, old.X, old.Y, old.WidthCm, old.HeightCm) {
				out = append(out, entities.PositionRecord{
					SeasonYear:  archive.SeasonYear,
					PlantID:     old.PlantID,
					SpeciesName: old.SpeciesName,
					FamilyID:    old.FamilyID,
				})
			}
		}
	}
	return out
}

// boxesOverlap is an axis-aligned overlap test requiring the shared
// area to exceed the tolerance in both dimensions.
func boxesOverlap(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	overlapX := min(ax+aw, bx+bw) - max(ax, bx)
	overlapY := min(ay+ah, by+bh) - max(ay, by)
	return overlapX > overlapToleranceCm && overlapY > overlapToleranceCm
}

func sortByYearDesc(archives []entities.SeasonArchive) []entities.SeasonArchive {
	sorted := make([]entities.SeasonArchive, len(archives))
	copy(sorted, archives)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SeasonYear > sorted[j].SeasonYear
	})
	return sorted
}
