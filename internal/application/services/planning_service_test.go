package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/domain/families"
	"github.com/gardenplan/core/internal/domain/frost"
	"github.com/gardenplan/core/internal/domain/maintenance"
	"github.com/gardenplan/core/internal/domain/rotation"
	"github.com/gardenplan/core/internal/domain/species"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

func newTestPlanner(t *testing.T, gardenRepo ports.GardenRepository, settingsRepo ports.SettingsRepository, archiveRepo ports.ArchiveRepository, weather ports.WeatherSource, now time.Time) *PlanningService {
	t.Helper()

	catalog, err := species.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	registry, err := families.LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	lookup, err := maintenance.LoadLookup(catalog)
	if err != nil {
		t.Fatalf("LoadLookup: %v", err)
	}
	stations, err := frost.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}

	svc := NewPlanningService(
		gardenRepo, settingsRepo, archiveRepo,
		catalog, frost.NewAdjuster(stations), lookup, rotation.NewDetector(registry),
		weather, logger.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func tomatoZone(status entities.ZoneStatus) entities.Zone {
	return entities.Zone{
		ID:       uuid.New(),
		GardenID: uuid.New(),
		PlantID:  "tomato",
		X:        0, Y: 0,
		WidthCm: 100, HeightCm: 100,
		Status: status,
		Season: 2025,
	}
}

func singleZoneGarden(zone entities.Zone) *entities.Garden {
	return &entities.Garden{
		ID:      zone.GardenID,
		OwnerID: uuid.New(),
		Name:    "Test plot",
		Zones:   []entities.Zone{zone},
	}
}

func countMonthlyByType(tasks []entities.MonthlyTask) map[entities.TaskType]int {
	counts := make(map[entities.TaskType]int)
	for _, task := range tasks {
		counts[task.Type]++
	}
	return counts
}

func countWeeklyByType(tasks []entities.WeeklyTask) map[entities.TaskType]int {
	counts := make(map[entities.TaskType]int)
	for _, task := range tasks {
		counts[task.Type]++
	}
	return counts
}

func TestGenerateMonthlyTasksTomatoSpring(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	garden := singleZoneGarden(tomatoZone(entities.StatusPlanned))

	tasks := svc.GenerateMonthlyTasks(garden, nil, 4, 2025, now)
	counts := countMonthlyByType(tasks)

	if counts[entities.TaskSowIndoor] != 1 {
		t.Errorf("sow-indoor tasks = %d, want 1", counts[entities.TaskSowIndoor])
	}
	if counts[entities.TaskSowOutdoor] != 0 {
		t.Errorf("sow-outdoor tasks = %d, want 0 in April", counts[entities.TaskSowOutdoor])
	}
	if counts[entities.TaskHarvest] != 0 {
		t.Errorf("harvest tasks = %d, want 0 in April", counts[entities.TaskHarvest])
	}
	for _, task := range tasks {
		if task.Type == entities.TaskSowIndoor && task.Completed {
			t.Error("sow task on a planned zone should not be completed")
		}
	}
}

func TestGenerateMonthlyTasksTomatoAugust(t *testing.T) {
	now := time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	garden := singleZoneGarden(tomatoZone(entities.StatusGrowing))

	tasks := svc.GenerateMonthlyTasks(garden, nil, 8, 2025, now)
	counts := countMonthlyByType(tasks)

	if counts[entities.TaskHarvest] != 1 {
		t.Errorf("harvest tasks = %d, want 1", counts[entities.TaskHarvest])
	}
	if counts[entities.TaskSowIndoor]+counts[entities.TaskSowOutdoor] != 0 {
		t.Error("no sow tasks expected in August")
	}
	// fruiting templates: one unrestricted + three August-scoped tasks,
	// two August warnings
	if counts[entities.TaskMaintenance] != 4 {
		t.Errorf("maintenance tasks = %d, want 4", counts[entities.TaskMaintenance])
	}
	if counts[entities.TaskWarning] != 2 {
		t.Errorf("warning tasks = %d, want 2", counts[entities.TaskWarning])
	}
}

func TestGenerateMonthlyTasksUnknownSpecies(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	zone := tomatoZone(entities.StatusPlanned)
	zone.PlantID = "dragonfruit"
	garden := singleZoneGarden(zone)

	tasks := svc.GenerateMonthlyTasks(garden, nil, 6, 2025, now)
	if len(tasks) != 0 {
		t.Errorf("tasks for unknown species = %d, want 0", len(tasks))
	}
}

func TestGenerateMonthlyTasksSowCompletedAfterStatusChange(t *testing.T) {
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	garden := singleZoneGarden(tomatoZone(entities.StatusSownIndoor))

	tasks := svc.GenerateMonthlyTasks(garden, nil, 4, 2025, now)
	found := false
	for _, task := range tasks {
		if task.Type == entities.TaskSowIndoor {
			found = true
			if !task.Completed {
				t.Error("sow task should be completed once sowing started")
			}
		}
	}
	if !found {
		t.Fatal("expected a sow-indoor task in April")
	}
}

func TestGenerateMonthlyTasksFrostOffsetShiftsSowing(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	garden := singleZoneGarden(tomatoZone(entities.StatusPlanned))

	code := "260"
	cold := &entities.UserSettings{
		UserID:          uuid.New(),
		KNMIStationCode: &code,
		FrostOffsetDays: 21,
	}

	// A three-week-later frost pushes the March-May indoor window to
	// April-June.
	tasks := svc.GenerateMonthlyTasks(garden, cold, 3, 2025, now)
	if counts := countMonthlyByType(tasks); counts[entities.TaskSowIndoor] != 0 {
		t.Errorf("sow-indoor tasks in March with late frost = %d, want 0", counts[entities.TaskSowIndoor])
	}

	tasks = svc.GenerateMonthlyTasks(garden, cold, 6, 2025, now)
	if counts := countMonthlyByType(tasks); counts[entities.TaskSowIndoor] != 1 {
		t.Errorf("sow-indoor tasks in June with late frost = %d, want 1", counts[entities.TaskSowIndoor])
	}

	// Harvest windows are never adjusted.
	tasks = svc.GenerateMonthlyTasks(garden, cold, 7, 2025, now)
	if counts := countMonthlyByType(tasks); counts[entities.TaskHarvest] != 1 {
		t.Errorf("harvest tasks in July with late frost = %d, want 1", counts[entities.TaskHarvest])
	}
}

func TestGenerateWeeklyTasksStatusFiltering(t *testing.T) {
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)

	// Week 28 of 2025 starts July 7: inside the tomato harvest window,
	// outside both sow windows.
	tests := []struct {
		status entities.ZoneStatus
		want   map[entities.TaskType]int
	}{
		{entities.StatusPlanned, map[entities.TaskType]int{}},
		{entities.StatusSownOutdoor, map[entities.TaskType]int{entities.TaskWarning: 2}},
		{entities.StatusTransplanted, map[entities.TaskType]int{entities.TaskMaintenance: 4, entities.TaskWarning: 2}},
		{entities.StatusGrowing, map[entities.TaskType]int{entities.TaskMaintenance: 4, entities.TaskHarvest: 1, entities.TaskWarning: 2}},
		{entities.StatusHarvesting, map[entities.TaskType]int{entities.TaskHarvest: 1, entities.TaskWarning: 2}},
		{entities.StatusDone, map[entities.TaskType]int{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			garden := singleZoneGarden(tomatoZone(tt.status))
			tasks := svc.GenerateWeeklyTasks(garden, nil, 28, 2025, nil, now)
			counts := countWeeklyByType(tasks)
			for _, taskType := range []entities.TaskType{
				entities.TaskSowIndoor, entities.TaskSowOutdoor,
				entities.TaskHarvest, entities.TaskMaintenance,
				entities.TaskWarning, entities.TaskWatering,
			} {
				if counts[taskType] != tt.want[taskType] {
					t.Errorf("%s tasks = %d, want %d", taskType, counts[taskType], tt.want[taskType])
				}
			}
		})
	}
}

func TestGenerateWeeklyTasksSowInWindow(t *testing.T) {
	now := time.Date(2025, 4, 14, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	garden := singleZoneGarden(tomatoZone(entities.StatusPlanned))

	// Week 16 is inside the indoor sow window (weeks 10-22) and before
	// the outdoor one (weeks 18-26).
	tasks := svc.GenerateWeeklyTasks(garden, nil, 16, 2025, nil, now)
	counts := countWeeklyByType(tasks)
	if counts[entities.TaskSowIndoor] != 1 {
		t.Errorf("sow-indoor tasks = %d, want 1", counts[entities.TaskSowIndoor])
	}
	if counts[entities.TaskSowOutdoor] != 0 {
		t.Errorf("sow-outdoor tasks = %d, want 0", counts[entities.TaskSowOutdoor])
	}
	for _, task := range tasks {
		if task.Week != 16 {
			t.Errorf("task week = %d, want 16", task.Week)
		}
	}
}

func TestGenerateWeeklyTasksWatering(t *testing.T) {
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)

	dry := &entities.WeatherData{PrecipitationLast7Days: 2, MaxTempToday: 20}
	hot := &entities.WeatherData{PrecipitationLast7Days: 15, MaxTempToday: 30}
	mild := &entities.WeatherData{PrecipitationLast7Days: 15, MaxTempToday: 20}

	tests := []struct {
		name    string
		status  entities.ZoneStatus
		weather *entities.WeatherData
		want    int
	}{
		{"dry week growing", entities.StatusGrowing, dry, 1},
		{"hot day growing", entities.StatusGrowing, hot, 1},
		{"mild week growing", entities.StatusGrowing, mild, 0},
		{"dry week sown outdoors", entities.StatusSownOutdoor, dry, 1},
		{"dry week planned", entities.StatusPlanned, dry, 0},
		{"dry week done", entities.StatusDone, dry, 0},
		{"no weather data", entities.StatusGrowing, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			garden := singleZoneGarden(tomatoZone(tt.status))
			tasks := svc.GenerateWeeklyTasks(garden, nil, 28, 2025, tt.weather, now)
			if counts := countWeeklyByType(tasks); counts[entities.TaskWatering] != tt.want {
				t.Errorf("watering tasks = %d, want %d", counts[entities.TaskWatering], tt.want)
			}
		})
	}
}

func TestGenerateWeeklyTasksWateringCompletion(t *testing.T) {
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)
	dry := &entities.WeatherData{PrecipitationLast7Days: 0, MaxTempToday: 28}

	tests := []struct {
		name        string
		completedAt time.Time
		want        bool
	}{
		{"watered this morning", now.Add(-6 * time.Hour), true},
		{"watered two days ago", now.Add(-48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := tomatoZone(entities.StatusGrowing)
			zone.CompletedTasks = map[string]time.Time{"watering": tt.completedAt}
			garden := singleZoneGarden(zone)

			tasks := svc.GenerateWeeklyTasks(garden, nil, 28, 2025, dry, now)
			for _, task := range tasks {
				if task.Type == entities.TaskWatering && task.Completed != tt.want {
					t.Errorf("watering completed = %t, want %t", task.Completed, tt.want)
				}
			}
		})
	}
}

func TestGenerateStatusHints(t *testing.T) {
	now := time.Date(2025, 5, 12, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, nil, nil, nil, nil, now)

	sownTwoWeeksAgo := []entities.ZoneEvent{{Type: entities.EventSown, OccurredAt: now.AddDate(0, 0, -15)}}
	sownRecently := []entities.ZoneEvent{{Type: entities.EventSown, OccurredAt: now.AddDate(0, 0, -5)}}
	transplantedTwoWeeksAgo := []entities.ZoneEvent{{Type: entities.EventTransplanted, OccurredAt: now.AddDate(0, 0, -15)}}

	tests := []struct {
		name   string
		status entities.ZoneStatus
		events []entities.ZoneEvent
		week   int
		want   entities.ZoneStatus
		none   bool
	}{
		// Week 20 sits in both sow windows; indoor sowing wins.
		{"planned prefers indoor", entities.StatusPlanned, nil, 20, entities.StatusSownIndoor, false},
		// Week 24 is past the indoor window.
		{"planned outdoor only", entities.StatusPlanned, nil, 24, entities.StatusSownOutdoor, false},
		{"planned out of season", entities.StatusPlanned, nil, 2, "", true},
		// De Bilt's average last frost lands in week 18.
		{"indoor before frost passed", entities.StatusSownIndoor, nil, 18, "", true},
		{"indoor after frost passed", entities.StatusSownIndoor, nil, 19, entities.StatusTransplanted, false},
		{"outdoor established", entities.StatusSownOutdoor, sownTwoWeeksAgo, 20, entities.StatusGrowing, false},
		{"outdoor too fresh", entities.StatusSownOutdoor, sownRecently, 20, "", true},
		{"transplanted established", entities.StatusTransplanted, transplantedTwoWeeksAgo, 20, entities.StatusGrowing, false},
		// Week 28 starts in July, inside the tomato harvest months.
		{"growing into harvest", entities.StatusGrowing, nil, 28, entities.StatusHarvesting, false},
		{"growing before harvest", entities.StatusGrowing, nil, 20, "", true},
		{"harvesting stays put", entities.StatusHarvesting, nil, 28, "", true},
		{"done stays put", entities.StatusDone, nil, 28, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := tomatoZone(tt.status)
			zone.Events = tt.events
			garden := singleZoneGarden(zone)

			hints := svc.GenerateStatusHints(garden, nil, tt.week, 2025, now)
			if tt.none {
				if len(hints) != 0 {
					t.Fatalf("hints = %d, want none", len(hints))
				}
				return
			}
			if len(hints) != 1 {
				t.Fatalf("hints = %d, want 1", len(hints))
			}
			if hints[0].Suggested != tt.want {
				t.Errorf("suggested = %s, want %s", hints[0].Suggested, tt.want)
			}
			if hints[0].Current != tt.status {
				t.Errorf("current = %s, want %s", hints[0].Current, tt.status)
			}
		})
	}
}

func TestPlanComposesWeekView(t *testing.T) {
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)

	zone := tomatoZone(entities.StatusGrowing)
	garden := singleZoneGarden(zone)
	gardenRepo := &fakeGardenRepo{garden: garden}
	settingsRepo := &fakeSettingsRepo{}
	archiveRepo := &fakeArchiveRepo{
		archives: []entities.SeasonArchive{{
			ID:         uuid.New(),
			GardenID:   garden.ID,
			SeasonYear: 2023,
			Zones: []entities.ArchivedZone{{
				X: 10, Y: 10, WidthCm: 100, HeightCm: 100,
				PlantID: "potato", FamilyID: "solanaceae", SpeciesName: "Potato",
			}},
		}},
	}

	svc := newTestPlanner(t, gardenRepo, settingsRepo, archiveRepo, nil, now)

	plan, err := svc.Plan(context.Background(), garden.ID, 28, 2025)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if plan.Week != 28 || plan.Year != 2025 {
		t.Errorf("plan week/year = %d/%d, want 28/2025", plan.Week, plan.Year)
	}
	if !plan.WeekStart.Equal(time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week start = %v, want 2025-07-07", plan.WeekStart)
	}
	if len(plan.Tasks) == 0 {
		t.Error("expected tasks for a growing tomato in July")
	}
	if len(plan.Hints) != 1 || plan.Hints[0].Suggested != entities.StatusHarvesting {
		t.Errorf("hints = %+v, want one harvesting suggestion", plan.Hints)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(plan.Warnings))
	}
	if plan.Warnings[0].ConflictYear != 2023 {
		t.Errorf("conflict year = %d, want 2023", plan.Warnings[0].ConflictYear)
	}
	if plan.Warnings[0].ConflictSpeciesName != "Potato" {
		t.Errorf("conflict species = %s, want Potato", plan.Warnings[0].ConflictSpeciesName)
	}
}

func TestWeeklyTasksQueriesWeatherSource(t *testing.T) {
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)

	zone := tomatoZone(entities.StatusGrowing)
	garden := singleZoneGarden(zone)
	gardenRepo := &fakeGardenRepo{garden: garden}
	code := "260"
	settingsRepo := &fakeSettingsRepo{settings: &entities.UserSettings{UserID: garden.OwnerID, KNMIStationCode: &code}}

	tests := []struct {
		name    string
		weather *fakeWeather
		want    int
	}{
		{"dry data available", &fakeWeather{data: entities.WeatherData{PrecipitationLast7Days: 1, MaxTempToday: 22}, ok: true}, 1},
		{"source has no data", &fakeWeather{ok: false}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestPlanner(t, gardenRepo, settingsRepo, &fakeArchiveRepo{}, tt.weather, now)
			tasks, err := svc.WeeklyTasks(context.Background(), garden.ID, 28, 2025)
			if err != nil {
				t.Fatalf("WeeklyTasks: %v", err)
			}
			if counts := countWeeklyByType(tasks); counts[entities.TaskWatering] != tt.want {
				t.Errorf("watering tasks = %d, want %d", counts[entities.TaskWatering], tt.want)
			}
		})
	}
}

func TestPlanGardenNotFound(t *testing.T) {
	now := time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC)
	svc := newTestPlanner(t, &fakeGardenRepo{}, &fakeSettingsRepo{}, &fakeArchiveRepo{}, nil, now)

	if _, err := svc.Plan(context.Background(), uuid.New(), 28, 2025); err == nil {
		t.Fatal("expected error for missing garden")
	}
}
