package cpm

import "github.com/mfriesen/ganttcore/internal/calendar"

// Result holds the outcome of a full reschedule. Per-activity dates and
// float are written onto the plan's activities; Result carries the
// project-level aggregates.
type Result struct {
	ProjectFinish calendar.Date
	CriticalPath  []string // critical activities in topological order
	TopoOrder     []string
}
