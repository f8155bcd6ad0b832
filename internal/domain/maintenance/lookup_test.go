package maintenance

import (
	"testing"
	"time"

	"github.com/gardenplan/core/internal/domain/entities"
)

type staticTyper map[string]string

func (s staticTyper) PlantType(plantID string) string { return s[plantID] }

func testLookup(t *testing.T) *Lookup {
	t.Helper()
	l, err := LoadLookup(staticTyper{
		"tomato": "fruiting",
		"carrot": "root",
	})
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestTasksForMonth(t *testing.T) {
	l := testLookup(t)

	// July: the always-applicable watering task plus every July-tagged one.
	july := l.TasksForMonth("tomato", 7)
	ids := make(map[string]bool, len(july))
	for _, tpl := range july {
		ids[tpl.ID] = true
	}
	for _, want := range []string{"water-deep", "feed-tomato", "remove-sideshoots", "tie-in"} {
		if !ids[want] {
			t.Fatalf("expected %s in July tasks, got %v", want, ids)
		}
	}

	// January: only the unrestricted template survives.
	jan := l.TasksForMonth("tomato", 1)
	if len(jan) != 1 || jan[0].ID != "water-deep" {
		t.Fatalf("January tasks = %+v, want only water-deep", jan)
	}

	if got := l.TasksForMonth("unknown-species", 7); got != nil {
		t.Fatalf("unknown species should yield no tasks, got %+v", got)
	}
}

func TestWarningsForMonth(t *testing.T) {
	l := testLookup(t)

	aug := l.WarningsForMonth("tomato", 8)
	if len(aug) != 2 {
		t.Fatalf("August warnings = %+v, want blight and blossom end rot", aug)
	}

	// Carrot fly is not flagged in July, between its two flight periods.
	if got := l.WarningsForMonth("carrot", 7); len(got) != 0 {
		t.Fatalf("July carrot warnings = %+v, want none", got)
	}
	if got := l.WarningsForMonth("carrot", 5); len(got) != 1 {
		t.Fatalf("May carrot warnings = %+v, want carrot fly", got)
	}
}

func TestTemplateCompleted(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		completedAt time.Time
		freq        entities.TaskFrequency
		want        bool
	}{
		{"weekly done 3 days ago still closed", now.AddDate(0, 0, -3), entities.FrequencyWeekly, true},
		{"weekly done 8 days ago reopens", now.AddDate(0, 0, -8), entities.FrequencyWeekly, false},
		{"biweekly done 10 days ago still closed", now.AddDate(0, 0, -10), entities.FrequencyBiweekly, true},
		{"daily done yesterday reopens", now.AddDate(0, 0, -1), entities.FrequencyDaily, false},
		{"monthly done 31 days ago reopens", now.AddDate(0, 0, -31), entities.FrequencyMonthly, false},
		{"once is permanent", now.AddDate(-2, 0, 0), entities.FrequencyOnce, true},
		{"yearly is permanent", now.AddDate(-2, 0, 0), entities.FrequencyYearly, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TemplateCompleted(tt.completedAt, tt.freq, now); got != tt.want {
				t.Fatalf("TemplateCompleted = %v, want %v", got, tt.want)
			}
		})
	}
}
