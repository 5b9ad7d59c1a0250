package leveling

import "github.com/mfriesen/ganttcore/internal/calendar"

// Config controls the bounded slot search.
type Config struct {
	// MaxScanDays caps how many working days past the effective earliest
	// start the engine probes for a capacity-feasible slot before falling
	// back to a precedence-only, possibly over-allocated placement.
	MaxScanDays int
}

// DefaultMaxScanDays bounds the day scan on pathological capacity
// configurations.
const DefaultMaxScanDays = 365

func (c Config) maxScan() int {
	if c.MaxScanDays > 0 {
		return c.MaxScanDays
	}
	return DefaultMaxScanDays
}

// Result is the outcome of a leveling run.
type Result struct {
	ProjectFinish calendar.Date
	// BoundExceeded lists activities for which no feasible slot was found
	// within the scan bound; they were placed respecting precedence only
	// and may be over-allocated.
	BoundExceeded []string
}
