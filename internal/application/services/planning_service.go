package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gardenplan/core/internal/domain/calendar"
	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/domain/frost"
	"github.com/gardenplan/core/internal/domain/maintenance"
	"github.com/gardenplan/core/internal/domain/rotation"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// Watering thresholds for the weather-derived watering task.
const (
	dryWeekPrecipitationMm = 10.0
	hotDayMaxTempC         = 25.0
	wateringTemplateID     = "watering"
)

// growingDelayDays is how long after sowing or transplanting a zone is
// suggested to move to growing.
const growingDelayDays = 14

// PlanningService turns garden snapshots into task lists, status hints
// and rotation warnings. All generation is a pure transform over the
// loaded snapshot; only the exported entry points touch repositories.
type PlanningService struct {
	gardenRepo   ports.GardenRepository
	settingsRepo ports.SettingsRepository
	archiveRepo  ports.ArchiveRepository
	catalog      ports.SpeciesCatalog
	adjuster     *frost.Adjuster
	lookup       *maintenance.Lookup
	detector     *rotation.Detector
	weather      ports.WeatherSource
	logger       *logger.Logger
	now          func() time.Time
}

// NewPlanningService creates a new planning service. The weather
// source may be nil; watering tasks are then never generated.
func NewPlanningService(
	gardenRepo ports.GardenRepository,
	settingsRepo ports.SettingsRepository,
	archiveRepo ports.ArchiveRepository,
	catalog ports.SpeciesCatalog,
	adjuster *frost.Adjuster,
	lookup *maintenance.Lookup,
	detector *rotation.Detector,
	weather ports.WeatherSource,
	logger *logger.Logger,
) *PlanningService {
	return &PlanningService{
		gardenRepo:   gardenRepo,
		settingsRepo: settingsRepo,
		archiveRepo:  archiveRepo,
		catalog:      catalog,
		adjuster:     adjuster,
		lookup:       lookup,
		detector:     detector,
		weather:      weather,
		logger:       logger,
		now:          time.Now,
	}
}

// MonthlyTasks generates the month-scoped task list for a garden.
func (s *PlanningService) MonthlyTasks(ctx context.Context, gardenID uuid.UUID, month, year int) ([]entities.MonthlyTask, error) {
	garden, settings, err := s.loadSnapshot(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	return s.GenerateMonthlyTasks(garden, settings, month, year, s.now()), nil
}

// WeeklyTasks generates the week-scoped, status-filtered task list.
func (s *PlanningService) WeeklyTasks(ctx context.Context, gardenID uuid.UUID, week, year int) ([]entities.WeeklyTask, error) {
	garden, settings, err := s.loadSnapshot(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	weather := s.currentWeather(ctx, settings)
	return s.GenerateWeeklyTasks(garden, settings, week, year, weather, s.now()), nil
}

// StatusHints generates the lifecycle-transition suggestions.
func (s *PlanningService) StatusHints(ctx context.Context, gardenID uuid.UUID, week, year int) ([]entities.StatusHint, error) {
	garden, settings, err := s.loadSnapshot(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	return s.GenerateStatusHints(garden, settings, week, year, s.now()), nil
}

// RotationWarnings checks every zone against the garden's archives.
func (s *PlanningService) RotationWarnings(ctx context.Context, gardenID uuid.UUID, year int) ([]entities.RotationWarning, error) {
	garden, err := s.gardenRepo.GetByID(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("garden not found: %w", err)
	}
	archives, err := s.archiveRepo.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return s.detector.AllRotationWarnings(garden.Zones, archives, year), nil
}

// PositionHistory lists all past plantings overlapping a position.
func (s *PlanningService) PositionHistory(ctx context.Context, gardenID uuid.UUID, x, y, w, h float64) ([]entities.PositionRecord, error) {
	archives, err := s.archiveRepo.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	return s.detector.PositionHistory(x, y, w, h, archives), nil
}

// Plan composes tasks, hints and rotation warnings for one ISO week
// into a single view-model.
func (s *PlanningService) Plan(ctx context.Context, gardenID uuid.UUID, week, year int) (*entities.WeekPlan, error) {
	garden, settings, err := s.loadSnapshot(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	archives, err := s.archiveRepo.ListByGarden(ctx, gardenID)
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}

	now := s.now()
	weather := s.currentWeather(ctx, settings)
	start, end := calendar.WeekDateRange(week, year)

	plan := &entities.WeekPlan{
		GardenID:  gardenID,
		Year:      year,
		Week:      week,
		WeekStart: start,
		WeekEnd:   end,
		Tasks:     s.GenerateWeeklyTasks(garden, settings, week, year, weather, now),
		Hints:     s.GenerateStatusHints(garden, settings, week, year, now),
		Warnings:  s.detector.AllRotationWarnings(garden.Zones, archives, year),
	}

	s.logger.Debug("Generated week plan",
		"garden_id", gardenID, "week", week, "year", year,
		"tasks", len(plan.Tasks), "hints", len(plan.Hints), "warnings", len(plan.Warnings))

	return plan, nil
}

// GenerateMonthlyTasks produces the month-granularity task list for a
// garden snapshot. Zones with an unknown species are skipped; a
// missing species record is a display concern upstream, not a
// scheduling error.
func (s *PlanningService) GenerateMonthlyTasks(garden *entities.Garden, settings *entities.UserSettings, month, year int, now time.Time) []entities.MonthlyTask {
	var tasks []entities.MonthlyTask
	for i := range garden.Zones {
		zone := &garden.Zones[i]
		sp, ok := s.catalog.SpeciesByID(zone.PlantID)
		if !ok {
			continue
		}

		if sp.SowIndoor != nil {
			adjusted := s.adjuster.AdjustMonthRange(*sp.SowIndoor, settings, year)
			if calendar.InMonthRange(month, adjusted) {
				tasks = append(tasks, s.sowTask(zone, sp, entities.TaskSowIndoor))
			}
		}
		if sp.SowOutdoor != nil {
			adjusted := s.adjuster.AdjustMonthRange(*sp.SowOutdoor, settings, year)
			if calendar.InMonthRange(month, adjusted) {
				tasks = append(tasks, s.sowTask(zone, sp, entities.TaskSowOutdoor))
			}
		}
		// Harvest windows follow the crop, not the region.
		if sp.Harvest != nil && calendar.InMonthRange(month, *sp.Harvest) {
			tasks = append(tasks, entities.MonthlyTask{
				ZoneID:      zone.ID,
				PlantID:     sp.ID,
				SpeciesName: sp.Name,
				Icon:        sp.Icon,
				Type:        entities.TaskHarvest,
				Title:       fmt.Sprintf("Harvest %s", sp.Name),
				Completed:   zone.Harvested(),
			})
		}

		tasks = append(tasks, s.maintenanceTasks(zone, sp, month, now)...)
		tasks = append(tasks, s.warningTasks(zone, sp, month)...)
	}
	return tasks
}

// GenerateWeeklyTasks produces the week-granularity task list. Unlike
// the monthly variant it filters categories by the zone's lifecycle
// status, so a harvesting zone no longer surfaces sow tasks.
func (s *PlanningService) GenerateWeeklyTasks(garden *entities.Garden, settings *entities.UserSettings, week, year int, weather *entities.WeatherData, now time.Time) []entities.WeeklyTask {
	weekStart, _ := calendar.WeekDateRange(week, year)
	month := int(weekStart.Month())

	var tasks []entities.WeeklyTask
	for i := range garden.Zones {
		zone := &garden.Zones[i]
		sp, ok := s.catalog.SpeciesByID(zone.PlantID)
		if !ok {
			continue
		}
		rel := relevanceFor(zone.EffectiveStatus())

		if rel.sow {
			if sp.SowIndoor != nil && calendar.InWeekRange(week, s.sowWeekRange(*sp.SowIndoor, settings, year)) {
				tasks = append(tasks, entities.WeeklyTask{MonthlyTask: s.sowTask(zone, sp, entities.TaskSowIndoor), Week: week})
			}
			if sp.SowOutdoor != nil && calendar.InWeekRange(week, s.sowWeekRange(*sp.SowOutdoor, settings, year)) {
				tasks = append(tasks, entities.WeeklyTask{MonthlyTask: s.sowTask(zone, sp, entities.TaskSowOutdoor), Week: week})
			}
		}
		if rel.harvest && sp.Harvest != nil && calendar.InWeekRange(week, calendar.MonthRangeToWeekRange(*sp.Harvest)) {
			tasks = append(tasks, entities.WeeklyTask{
				MonthlyTask: entities.MonthlyTask{
					ZoneID:      zone.ID,
					PlantID:     sp.ID,
					SpeciesName: sp.Name,
					Icon:        sp.Icon,
					Type:        entities.TaskHarvest,
					Title:       fmt.Sprintf("Harvest %s", sp.Name),
					Completed:   zone.Harvested(),
				},
				Week: week,
			})
		}
		if rel.maintenance {
			for _, t := range s.maintenanceTasks(zone, sp, month, now) {
				tasks = append(tasks, entities.WeeklyTask{MonthlyTask: t, Week: week})
			}
		}
		if w := s.wateringTask(zone, sp, weather, now); w != nil {
			tasks = append(tasks, entities.WeeklyTask{MonthlyTask: *w, Week: week})
		}
		if rel.warnings {
			for _, t := range s.warningTasks(zone, sp, month) {
				tasks = append(tasks, entities.WeeklyTask{MonthlyTask: t, Week: week})
			}
		}
	}
	return tasks
}

// GenerateStatusHints derives at most one lifecycle suggestion per
// zone. Hints are advisory; nothing is applied here.
func (s *PlanningService) GenerateStatusHints(garden *entities.Garden, settings *entities.UserSettings, week, year int, now time.Time) []entities.StatusHint {
	var hints []entities.StatusHint
	for i := range garden.Zones {
		zone := &garden.Zones[i]
		sp, ok := s.catalog.SpeciesByID(zone.PlantID)
		if !ok {
			continue
		}
		if h := s.hintForZone(zone, sp, settings, week, year, now); h != nil {
			hints = append(hints, *h)
		}
	}
	return hints
}

func (s *PlanningService) hintForZone(zone *entities.Zone, sp entities.SpeciesCalendar, settings *entities.UserSettings, week, year int, now time.Time) *entities.StatusHint {
	status := zone.EffectiveStatus()

	switch status {
	case entities.StatusPlanned:
		if sp.SowIndoor != nil && calendar.InWeekRange(week, s.sowWeekRange(*sp.SowIndoor, settings, year)) {
			return hint(zone, status, entities.StatusSownIndoor,
				fmt.Sprintf("Time to sow %s indoors.", sp.Name))
		}
		if sp.SowOutdoor != nil && calendar.InWeekRange(week, s.sowWeekRange(*sp.SowOutdoor, settings, year)) {
			return hint(zone, status, entities.StatusSownOutdoor,
				fmt.Sprintf("Time to sow %s outdoors.", sp.Name))
		}
	case entities.StatusSownIndoor:
		if week >= s.adjuster.LastFrostWeek(settings, year)+1 {
			return hint(zone, status, entities.StatusTransplanted,
				fmt.Sprintf("Frost risk has passed; %s can go outside.", sp.Name))
		}
	case entities.StatusSownOutdoor:
		if ev := zone.LastEventOfType(entities.EventSown); ev != nil && daysSince(ev.OccurredAt, now) >= growingDelayDays {
			return hint(zone, status, entities.StatusGrowing,
				fmt.Sprintf("%s was sown two weeks ago and should be established.", sp.Name))
		}
	case entities.StatusTransplanted:
		if ev := zone.LastEventOfType(entities.EventTransplanted); ev != nil && daysSince(ev.OccurredAt, now) >= growingDelayDays {
			return hint(zone, status, entities.StatusGrowing,
				fmt.Sprintf("%s was transplanted two weeks ago and should be established.", sp.Name))
		}
	case entities.StatusGrowing:
		weekStart, _ := calendar.WeekDateRange(week, year)
		if sp.Harvest != nil && calendar.InMonthRange(int(weekStart.Month()), *sp.Harvest) {
			return hint(zone, status, entities.StatusHarvesting,
				fmt.Sprintf("%s is in its harvest window.", sp.Name))
		}
	}
	// Harvesting and done zones get no further suggestions.
	return nil
}

// loadSnapshot loads a garden and its owner's settings. Missing
// settings degrade to nil, meaning no regional adjustment.
func (s *PlanningService) loadSnapshot(ctx context.Context, gardenID uuid.UUID) (*entities.Garden, *entities.UserSettings, error) {
	garden, err := s.gardenRepo.GetByID(ctx, gardenID)
	if err != nil {
		return nil, nil, fmt.Errorf("garden not found: %w", err)
	}
	settings, err := s.settingsRepo.Get(ctx, garden.OwnerID)
	if err != nil {
		settings = nil
	}
	return garden, settings, nil
}

// currentWeather resolves the station coordinates for the user's
// region and asks the weather source. Absence of a source or data
// means no watering tasks.
func (s *PlanningService) currentWeather(ctx context.Context, settings *entities.UserSettings) *entities.WeatherData {
	if s.weather == nil {
		return nil
	}
	station := s.adjuster.Stations().Reference()
	if settings != nil && settings.KNMIStationCode != nil {
		if st, ok := s.adjuster.Stations().StationByCode(*settings.KNMIStationCode); ok {
			station = st
		}
	}
	data, ok := s.weather.Current(ctx, station.Latitude, station.Longitude)
	if !ok {
		return nil
	}
	return &data
}

func (s *PlanningService) sowWeekRange(r entities.MonthRange, settings *entities.UserSettings, year int) entities.WeekRange {
	return s.adjuster.AdjustWeekRange(calendar.MonthRangeToWeekRange(r), settings, year)
}

func (s *PlanningService) sowTask(zone *entities.Zone, sp entities.SpeciesCalendar, taskType entities.TaskType) entities.MonthlyTask {
	title := fmt.Sprintf("Sow %s indoors", sp.Name)
	if taskType == entities.TaskSowOutdoor {
		title = fmt.Sprintf("Sow %s outdoors", sp.Name)
	}
	return entities.MonthlyTask{
		ZoneID:      zone.ID,
		PlantID:     sp.ID,
		SpeciesName: sp.Name,
		Icon:        sp.Icon,
		Type:        taskType,
		Title:       title,
		Completed:   zone.SowingStarted(),
	}
}

func (s *PlanningService) maintenanceTasks(zone *entities.Zone, sp entities.SpeciesCalendar, month int, now time.Time) []entities.MonthlyTask {
	var out []entities.MonthlyTask
	for _, tpl := range s.lookup.TasksForMonth(zone.PlantID, month) {
		tpl := tpl
		completed := false
		if completedAt, ok := zone.CompletedTasks[tpl.ID]; ok {
			completed = maintenance.TemplateCompleted(completedAt, tpl.Frequency, now)
		}
		out = append(out, entities.MonthlyTask{
			ZoneID:      zone.ID,
			PlantID:     sp.ID,
			SpeciesName: sp.Name,
			Icon:        sp.Icon,
			Type:        entities.TaskMaintenance,
			Title:       tpl.Title,
			Description: tpl.Description,
			Template:    &tpl,
			Completed:   completed,
		})
	}
	return out
}

func (s *PlanningService) warningTasks(zone *entities.Zone, sp entities.SpeciesCalendar, month int) []entities.MonthlyTask {
	var out []entities.MonthlyTask
	for _, w := range s.lookup.WarningsForMonth(zone.PlantID, month) {
		out = append(out, entities.MonthlyTask{
			ZoneID:      zone.ID,
			PlantID:     sp.ID,
			SpeciesName: sp.Name,
			Icon:        sp.Icon,
			Type:        entities.TaskWarning,
			Title:       w.Title,
			Description: w.Advice,
		})
	}
	return out
}

// wateringTask derives a watering task from injected weather data: a
// dry week or a hot day triggers it for zones with plants in the
// ground.
func (s *PlanningService) wateringTask(zone *entities.Zone, sp entities.SpeciesCalendar, weather *entities.WeatherData, now time.Time) *entities.MonthlyTask {
	if weather == nil {
		return nil
	}
	if weather.PrecipitationLast7Days >= dryWeekPrecipitationMm && weather.MaxTempToday <= hotDayMaxTempC {
		return nil
	}
	switch zone.EffectiveStatus() {
	case entities.StatusSownOutdoor, entities.StatusTransplanted, entities.StatusGrowing, entities.StatusHarvesting:
	default:
		return nil
	}

	completed := false
	if completedAt, ok := zone.CompletedTasks[wateringTemplateID]; ok {
		completed = maintenance.TemplateCompleted(completedAt, entities.FrequencyDaily, now)
	}
	return &entities.MonthlyTask{
		ZoneID:      zone.ID,
		PlantID:     sp.ID,
		SpeciesName: sp.Name,
		Icon:        sp.Icon,
		Type:        entities.TaskWatering,
		Title:       fmt.Sprintf("Water %s", sp.Name),
		Description: "Little rain this week; give the bed a thorough soak.",
		Completed:   completed,
	}
}

// relevance encodes which task categories a lifecycle status still
// cares about.
type relevance struct {
	sow         bool
	maintenance bool
	harvest     bool
	warnings    bool
}

func relevanceFor(status entities.ZoneStatus) relevance {
	switch status {
	case entities.StatusPlanned:
		return relevance{sow: true}
	case entities.StatusSownIndoor, entities.StatusSownOutdoor:
		return relevance{warnings: true}
	case entities.StatusTransplanted:
		return relevance{maintenance: true, warnings: true}
	case entities.StatusGrowing:
		return relevance{maintenance: true, harvest: true, warnings: true}
	case entities.StatusHarvesting:
		return relevance{harvest: true, warnings: true}
	default: // done
		return relevance{}
	}
}

func hint(zone *entities.Zone, current, suggested entities.ZoneStatus, msg string) *entities.StatusHint {
	return &entities.StatusHint{
		ZoneID:    zone.ID,
		Current:   current,
		Suggested: suggested,
		Message:   msg,
	}
}

func daysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
