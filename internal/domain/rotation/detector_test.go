package rotation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/domain/families"
)

func testDetector(t *testing.T) *Detector {
	t.Helper()
	reg, err := families.LoadRegistry()
	if err != nil {
		t.Fatal(err)
	}
	return NewDetector(reg)
}

func tomatoZone() *entities.Zone {
	return &entities.Zone{
		ID:       uuid.New(),
		PlantID:  "tomato",
		X:        0,
		Y:        0,
		WidthCm:  100,
		HeightCm: 100,
	}
}

func archive(year int, zones ...entities.ArchivedZone) entities.SeasonArchive {
	return entities.SeasonArchive{
		ID:         uuid.New(),
		SeasonYear: year,
		Zones:      zones,
	}
}

func potatoAt(x, y float64) entities.ArchivedZone {
	return entities.ArchivedZone{
		X: x, Y: y, WidthCm: 100, HeightCm: 100,
		PlantID: "potato", FamilyID: "solanaceae", SpeciesName: "Potato",
	}
}

func TestCheckRotationConflict(t *testing.T) {
	d := testDetector(t)
	currentYear := 2025

	// Nightshade two years ago, overlapping box: one warning.
	w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{
		archive(2023, potatoAt(5, 5)),
	}, currentYear)
	if w == nil {
		t.Fatal("expected a rotation warning")
	}
	if w.ConflictYear != 2023 {
		t.Fatalf("conflict year = %d, want 2023", w.ConflictYear)
	}
	if w.ConflictSpeciesName != "Potato" || w.FamilyID != "solanaceae" {
		t.Fatalf("unexpected warning: %+v", w)
	}
	if w.RotationYears != 4 {
		t.Fatalf("rotation years = %d, want 4", w.RotationYears)
	}
}

func TestCheckRotationNoOverlap(t *testing.T) {
	d := testDetector(t)

	if w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{
		archive(2023, potatoAt(500, 500)),
	}, 2025); w != nil {
		t.Fatalf("expected no warning for distant box, got %+v", w)
	}

	// A 10 cm sliver of overlap is within tolerance.
	if w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{
		archive(2023, potatoAt(90, 0)),
	}, 2025); w != nil {
		t.Fatalf("expected shallow overlap to be tolerated, got %+v", w)
	}

	// 15 cm of shared area exceeds the tolerance.
	if w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{
		archive(2023, potatoAt(85, 0)),
	}, 2025); w == nil {
		t.Fatal("expected 15cm overlap to conflict")
	}
}

func TestCheckRotationWindow(t *testing.T) {
	d := testDetector(t)

	tests := []struct {
		name        string
		archiveYear int
		currentYear int
		conflict    bool
	}{
		{"same year is not a conflict", 2025, 2025, false},
		{"one year back conflicts", 2024, 2025, true},
		{"exactly rotationYears back still conflicts", 2021, 2025, true},
		{"beyond the window is safe", 2020, 2025, false},
		{"future archive is ignored", 2026, 2025, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{
				archive(tt.archiveYear, potatoAt(5, 5)),
			}, tt.currentYear)
			if got := w != nil; got != tt.conflict {
				t.Fatalf("conflict = %v, want %v", got, tt.conflict)
			}
		})
	}
}

func TestCheckRotationNearestYearWins(t *testing.T) {
	d := testDetector(t)

	// Two qualifying years, supplied oldest-first: the check must still
	// report the most recent one.
	w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{
		archive(2022, potatoAt(5, 5)),
		archive(2024, potatoAt(5, 5)),
	}, 2025)
	if w == nil {
		t.Fatal("expected a warning")
	}
	if w.ConflictYear != 2024 {
		t.Fatalf("conflict year = %d, want nearest year 2024", w.ConflictYear)
	}
}

func TestCheckRotationDifferentFamily(t *testing.T) {
	d := testDetector(t)

	carrot := entities.ArchivedZone{
		X: 5, Y: 5, WidthCm: 100, HeightCm: 100,
		PlantID: "carrot", FamilyID: "apiaceae", SpeciesName: "Carrot",
	}
	if w := d.CheckRotation(tomatoZone(), []entities.SeasonArchive{archive(2024, carrot)}, 2025); w != nil {
		t.Fatalf("expected no warning across families, got %+v", w)
	}
}

func TestCheckRotationUnknownSpecies(t *testing.T) {
	d := testDetector(t)
	zone := tomatoZone()
	zone.PlantID = "sunflower"

	if w := d.CheckRotation(zone, []entities.SeasonArchive{archive(2024, potatoAt(5, 5))}, 2025); w != nil {
		t.Fatalf("species without a family cannot conflict, got %+v", w)
	}
}

func TestAllRotationWarnings(t *testing.T) {
	d := testDetector(t)

	zones := []entities.Zone{
		*tomatoZone(),
		{ID: uuid.New(), PlantID: "carrot", X: 300, Y: 300, WidthCm: 80, HeightCm: 80},
	}
	warnings := d.AllRotationWarnings(zones, []entities.SeasonArchive{
		archive(2024, potatoAt(5, 5)),
	}, 2025)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %+v, want exactly one", warnings)
	}
	if warnings[0].ZoneID != zones[0].ID {
		t.Fatal("warning attributed to wrong zone")
	}
}

func TestPositionHistory(t *testing.T) {
	d := testDetector(t)

	lettuce := entities.ArchivedZone{
		X: 0, Y: 0, WidthCm: 100, HeightCm: 100,
		PlantID: "lettuce", FamilyID: "asteraceae", SpeciesName: "Lettuce",
	}
	history := d.PositionHistory(0, 0, 100, 100, []entities.SeasonArchive{
		archive(2021, potatoAt(5, 5)),
		archive(2024, lettuce),
		archive(2023, potatoAt(500, 500)),
	})

	if len(history) != 2 {
		t.Fatalf("history = %+v, want two overlapping records", history)
	}
	if history[0].SeasonYear != 2024 || history[1].SeasonYear != 2021 {
		t.Fatalf("history not sorted most-recent-first: %+v", history)
	}
	if history[0].PlantID != "lettuce" {
		t.Fatalf("unexpected first record: %+v", history[0])
	}
}
