// Package maintenance provides the static per-plant-type task and
// pest-warning templates and the month filtering over them.
package maintenance

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gardenplan/core/internal/domain/entities"
)

//go:embed templates.yaml
var templatesYAML []byte

// PlantTyper maps a species id onto its plant type. The species
// catalog satisfies this.
type PlantTyper interface {
	PlantType(plantID string) string
}

type templateSet struct {
	Tasks    []entities.MaintenanceTemplate `yaml:"tasks"`
	Warnings []entities.PestWarningTemplate `yaml:"warnings"`
}

type templateFile struct {
	Templates map[string]templateSet `yaml:"templates"`
}

// Lookup resolves maintenance tasks and pest warnings per species and
// month. Read-only after construction.
type Lookup struct {
	byType map[string]templateSet
	types  PlantTyper
}

// NewLookup builds a lookup from explicit per-type template sets.
func NewLookup(types PlantTyper, byType map[string]templateSet) *Lookup {
	return &Lookup{byType: byType, types: types}
}

// LoadLookup parses the embedded template data.
func LoadLookup(types PlantTyper) (*Lookup, error) {
	var f templateFile
	if err := yaml.Unmarshal(templatesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse maintenance templates: %w", err)
	}
	return &Lookup{byType: f.Templates, types: types}, nil
}

// TasksForMonth returns the maintenance templates applicable to a
// species in a month: templates without a month restriction are always
// in scope, unioned with templates whose month list contains the month.
func (l *Lookup) TasksForMonth(plantID string, month int) []entities.MaintenanceTemplate {
	set, ok := l.byType[l.types.PlantType(plantID)]
	if !ok {
		return nil
	}

	var out []entities.MaintenanceTemplate
	for _, tpl := range set.Tasks {
		if len(tpl.Months) == 0 || containsMonth(tpl.Months, month) {
			out = append(out, tpl)
		}
	}
	return out
}

// WarningsForMonth returns the pest warnings applicable to a species
// in a month. Warnings always carry an explicit month list.
func (l *Lookup) WarningsForMonth(plantID string, month int) []entities.PestWarningTemplate {
	set, ok := l.byType[l.types.PlantType(plantID)]
	if !ok {
		return nil
	}

	var out []entities.PestWarningTemplate
	for _, w := range set.Warnings {
		if containsMonth(w.Months, month) {
			out = append(out, w)
		}
	}
	return out
}

// TemplateCompleted evaluates a completion record against a template's
// recurrence: once/yearly completions are permanent, repeating
// templates re-open after their interval has elapsed.
func TemplateCompleted(completedAt time.Time, freq entities.TaskFrequency, now time.Time) bool {
	if !freq.Repeats() {
		return true
	}
	return now.Sub(completedAt) < freq.Interval()
}

func containsMonth(months []int, month int) bool {
	for _, m := range months {
		if m == month {
			return true
		}
	}
	return false
}
