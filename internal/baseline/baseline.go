package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/model"
)

const baselineDir = ".ganttcore"
const baselineFile = "baseline.json"

// Entry is one activity's snapshotted schedule.
type Entry struct {
	Start  calendar.Date `json:"start"`
	Finish calendar.Date `json:"finish"`
}

// Baseline is a saved snapshot of a computed schedule, used for variance
// display against later reschedules.
type Baseline struct {
	Project string           `json:"project,omitempty"`
	SavedAt time.Time        `json:"saved_at"`
	Start   calendar.Date    `json:"start"`
	Finish  calendar.Date    `json:"finish"`
	Entries map[string]Entry `json:"entries"`

	path string
}

// Capture builds a baseline from the plan's current computed dates.
func Capture(plan *model.Plan) *Baseline {
	b := &Baseline{
		Project: plan.Name,
		SavedAt: time.Now(),
		Start:   plan.Start,
		Finish:  plan.Finish,
		Entries: make(map[string]Entry, len(plan.Activities)),
		path:    defaultPath(),
	}
	for _, a := range plan.Activities {
		if a.EarlyStart.IsZero() {
			continue
		}
		b.Entries[a.ID] = Entry{Start: a.EarlyStart, Finish: a.EarlyFinish}
	}
	return b
}

// Apply copies the snapshotted dates onto matching activities' baseline
// fields. Activities without a snapshot entry are left untouched.
func (b *Baseline) Apply(plan *model.Plan) {
	for _, a := range plan.Activities {
		if e, ok := b.Entries[a.ID]; ok {
			start, finish := e.Start, e.Finish
			a.BaselineStart = &start
			a.BaselineFinish = &finish
		}
	}
}

// Exists checks if a baseline file exists.
func Exists() bool {
	_, err := os.Stat(defaultPath())
	return err == nil
}

// Load reads the saved baseline from disk.
func Load() (*Baseline, error) {
	path := defaultPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse baseline: %w", err)
	}
	b.path = path
	return &b, nil
}

// Save persists the baseline to disk.
func (b *Baseline) Save() error {
	if b.path == "" {
		b.path = defaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("create baseline dir: %w", err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}
	return os.WriteFile(b.path, data, 0644)
}

// Clean removes the saved baseline.
func Clean() error {
	return os.RemoveAll(filepath.Join(baselineDir, baselineFile))
}

func defaultPath() string {
	return filepath.Join(baselineDir, baselineFile)
}
