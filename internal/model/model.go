package model

import (
	"fmt"
	"sort"

	"github.com/mfriesen/ganttcore/internal/calendar"
)

// ActivityKind classifies a schedulable node.
type ActivityKind string

const (
	KindTask            ActivityKind = "task"
	KindSummary         ActivityKind = "summary"
	KindStartMilestone  ActivityKind = "start-milestone"
	KindFinishMilestone ActivityKind = "finish-milestone"
)

// IsValid returns true if the kind is a known value.
func (k ActivityKind) IsValid() bool {
	switch k {
	case KindTask, KindSummary, KindStartMilestone, KindFinishMilestone:
		return true
	default:
		return false
	}
}

// IsMilestone reports whether the kind is a zero-duration milestone.
func (k ActivityKind) IsMilestone() bool {
	return k == KindStartMilestone || k == KindFinishMilestone
}

// DepType is a precedence relationship type.
type DepType string

const (
	FinishToStart  DepType = "FS"
	FinishToFinish DepType = "FF"
	StartToStart   DepType = "SS"
	StartToFinish  DepType = "SF"
)

// IsValid returns true if the dependency type is a known value.
func (t DepType) IsValid() bool {
	switch t {
	case FinishToStart, FinishToFinish, StartToStart, StartToFinish:
		return true
	default:
		return false
	}
}

// Assignment links an activity to a resource with a total quantity
// consumed across the activity's full duration.
type Assignment struct {
	ResourceID string  `yaml:"resource" json:"resource"`
	Amount     float64 `yaml:"amount" json:"amount"`
}

// Activity is a schedulable unit or summary node. The computed fields are
// owned by the scheduling passes and must not be authored directly.
type Activity struct {
	ID              string       `yaml:"id" json:"id"`
	Name            string       `yaml:"name" json:"name"`
	Kind            ActivityKind `yaml:"kind,omitempty" json:"kind,omitempty"`
	ParentID        string       `yaml:"parent,omitempty" json:"parent,omitempty"`
	Duration        int          `yaml:"duration,omitempty" json:"duration,omitempty"` // working days
	PercentComplete float64      `yaml:"percent_complete,omitempty" json:"percent_complete,omitempty"`
	CalendarID      string       `yaml:"calendar,omitempty" json:"calendar,omitempty"`
	Assignments     []Assignment `yaml:"assignments,omitempty" json:"assignments,omitempty"`

	// Cost fields. Budget overrides the assignment-derived
	// budget-at-completion when set.
	Budget     *float64 `yaml:"budget,omitempty" json:"budget,omitempty"`
	ActualCost float64  `yaml:"actual_cost,omitempty" json:"actual_cost,omitempty"`

	// Computed by the scheduling passes.
	EarlyStart    calendar.Date `yaml:"-" json:"early_start,omitempty"`
	EarlyFinish   calendar.Date `yaml:"-" json:"early_finish,omitempty"`
	LateStart     calendar.Date `yaml:"-" json:"late_start,omitempty"`
	LateFinish    calendar.Date `yaml:"-" json:"late_finish,omitempty"`
	TotalFloat    int           `yaml:"-" json:"total_float"` // calendar days
	Critical      bool          `yaml:"-" json:"critical"`
	LevelingDelay int           `yaml:"-" json:"leveling_delay,omitempty"` // calendar days

	// Optional baseline snapshot.
	BaselineStart  *calendar.Date `yaml:"baseline_start,omitempty" json:"baseline_start,omitempty"`
	BaselineFinish *calendar.Date `yaml:"baseline_finish,omitempty" json:"baseline_finish,omitempty"`
}

// Resource is a cost/availability-bearing entity.
type Resource struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	Unit        string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	CostPerUnit float64 `yaml:"cost_per_unit,omitempty" json:"cost_per_unit,omitempty"`
	MaxDaily    float64 `yaml:"max_daily,omitempty" json:"max_daily,omitempty"` // leveling capacity; 0 means the default of 1
}

// Capacity returns the daily capacity limit, defaulting to 1 unit.
func (r *Resource) Capacity() float64 {
	if r.MaxDaily > 0 {
		return r.MaxDaily
	}
	return 1
}

// Dependency is a directed precedence edge between two activities.
type Dependency struct {
	From string  `yaml:"from" json:"from"`
	To   string  `yaml:"to" json:"to"`
	Type DepType `yaml:"type,omitempty" json:"type,omitempty"`
	Lag  int     `yaml:"lag,omitempty" json:"lag,omitempty"` // signed working days
}

// Kind returns the dependency type, defaulting to finish-to-start.
func (d Dependency) Kind() DepType {
	if d.Type == "" {
		return FinishToStart
	}
	return d.Type
}

// Plan is the caller-owned project snapshot every scheduling operation
// takes as input and mutates in place on success.
type Plan struct {
	Name              string               `yaml:"name,omitempty" json:"name,omitempty"`
	Start             calendar.Date        `yaml:"start" json:"start"`
	Finish            calendar.Date        `yaml:"-" json:"finish,omitempty"` // computed project end
	StatusDate        *calendar.Date       `yaml:"status_date,omitempty" json:"status_date,omitempty"`
	Activities        []*Activity          `yaml:"activities" json:"activities"`
	Dependencies      []Dependency         `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	Resources         []*Resource          `yaml:"resources,omitempty" json:"resources,omitempty"`
	Calendars         []*calendar.Calendar `yaml:"calendars,omitempty" json:"calendars,omitempty"`
	DefaultCalendarID string               `yaml:"default_calendar,omitempty" json:"default_calendar,omitempty"`
}

// Validate checks the closed enums and referential integrity at the
// boundary so the scheduling passes can switch exhaustively.
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Activities))
	for _, a := range p.Activities {
		if a.ID == "" {
			return fmt.Errorf("activity with empty id")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate activity id %q", a.ID)
		}
		seen[a.ID] = true
		if a.Kind != "" && !a.Kind.IsValid() {
			return fmt.Errorf("activity %s: unknown kind %q", a.ID, a.Kind)
		}
		if a.Duration < 0 {
			return fmt.Errorf("activity %s: negative duration", a.ID)
		}
		if a.PercentComplete < 0 || a.PercentComplete > 100 {
			return fmt.Errorf("activity %s: percent complete %v out of range", a.ID, a.PercentComplete)
		}
	}
	for _, a := range p.Activities {
		if a.ParentID != "" && !seen[a.ParentID] {
			return fmt.Errorf("activity %s: unknown parent %q", a.ID, a.ParentID)
		}
	}
	for _, d := range p.Dependencies {
		if !seen[d.From] {
			return fmt.Errorf("dependency %s -> %s: unknown source", d.From, d.To)
		}
		if !seen[d.To] {
			return fmt.Errorf("dependency %s -> %s: unknown target", d.From, d.To)
		}
		if d.Type != "" && !d.Type.IsValid() {
			return fmt.Errorf("dependency %s -> %s: unknown type %q", d.From, d.To, d.Type)
		}
	}
	return nil
}

// ActivityByID returns the activity with the given id, or nil.
func (p *Plan) ActivityByID(id string) *Activity {
	for _, a := range p.Activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// ResourceByID returns the resource with the given id, or nil.
func (p *Plan) ResourceByID(id string) *Resource {
	for _, r := range p.Resources {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ChildrenIndex maps each parent id to its children ids, sorted for
// deterministic traversal.
func (p *Plan) ChildrenIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, a := range p.Activities {
		if a.ParentID != "" {
			idx[a.ParentID] = append(idx[a.ParentID], a.ID)
		}
	}
	for k := range idx {
		sort.Strings(idx[k])
	}
	return idx
}

// IsSummary reports whether the activity is a grouping node: either
// declared as one or made one by having children.
func (p *Plan) IsSummary(a *Activity, children map[string][]string) bool {
	return a.Kind == KindSummary || len(children[a.ID]) > 0
}

// CalendarSet builds the calendar resolver for this plan.
func (p *Plan) CalendarSet() *calendar.Set {
	return calendar.NewSet(p.Calendars, p.DefaultCalendarID)
}
