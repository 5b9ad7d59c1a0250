package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/model"
)

const yamlProject = `
name: Website Launch
start: 2025-06-02
status_date: 2025-06-06
default_calendar: standard
activities:
  - id: design
    name: Design
    duration: 5
    percent_complete: 40
    assignments:
      - resource: dev
        amount: 5
  - id: build
    name: Build
    duration: 3
    parent: ""
dependencies:
  - from: design
    to: build
    type: FS
    lag: 1
resources:
  - id: dev
    name: Developer
    cost_per_unit: 800
    max_daily: 2
calendars:
  - id: standard
    name: Standard
    work_days: [false, true, true, true, true, true, false]
    holidays: [2025-06-09]
    default: true
`

const jsonProject = `{
  "name": "Website Launch",
  "start": "2025-06-02",
  "activities": [
    {"id": "design", "duration": 5, "budget": 2000,
     "assignments": [{"resource": "dev", "amount": 5}]},
    {"id": "launch", "kind": "finish-milestone"}
  ],
  "dependencies": [{"from": "design", "to": "launch", "lag": -1}],
  "resources": [{"id": "dev", "cost_per_unit": 800}],
  "calendars": [{"id": "site", "holidays": ["2025-06-09"]}]
}`

func writeProject(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAML(t *testing.T) {
	plan, err := Load(writeProject(t, "project.yaml", yamlProject))
	require.NoError(t, err)

	assert.Equal(t, "Website Launch", plan.Name)
	assert.Equal(t, calendar.MustParseDate("2025-06-02"), plan.Start)
	require.NotNil(t, plan.StatusDate)
	assert.Equal(t, calendar.MustParseDate("2025-06-06"), *plan.StatusDate)

	require.Len(t, plan.Activities, 2)
	design := plan.ActivityByID("design")
	require.NotNil(t, design)
	assert.Equal(t, 5, design.Duration)
	assert.Equal(t, 40.0, design.PercentComplete)
	require.Len(t, design.Assignments, 1)
	assert.Equal(t, "dev", design.Assignments[0].ResourceID)

	require.Len(t, plan.Dependencies, 1)
	assert.Equal(t, model.FinishToStart, plan.Dependencies[0].Type)
	assert.Equal(t, 1, plan.Dependencies[0].Lag)

	require.Len(t, plan.Calendars, 1)
	cal := plan.Calendars[0]
	assert.True(t, cal.Default)
	assert.False(t, cal.IsWorkingDay(calendar.MustParseDate("2025-06-09")), "holiday")
	assert.False(t, cal.IsWorkingDay(calendar.MustParseDate("2025-06-07")), "Saturday")

	assert.Equal(t, 2.0, plan.ResourceByID("dev").MaxDaily)
}

func TestLoadJSON(t *testing.T) {
	plan, err := Load(writeProject(t, "project.json", jsonProject))
	require.NoError(t, err)

	design := plan.ActivityByID("design")
	require.NotNil(t, design)
	require.NotNil(t, design.Budget)
	assert.Equal(t, 2000.0, *design.Budget)

	launch := plan.ActivityByID("launch")
	require.NotNil(t, launch)
	assert.Equal(t, model.KindFinishMilestone, launch.Kind)

	require.Len(t, plan.Dependencies, 1)
	assert.Equal(t, -1, plan.Dependencies[0].Lag)

	// work_days absent: the calendar defaults to Mon-Fri.
	require.Len(t, plan.Calendars, 1)
	assert.True(t, plan.Calendars[0].IsWorkingDay(calendar.MustParseDate("2025-06-02")))
	assert.False(t, plan.Calendars[0].IsWorkingDay(calendar.MustParseDate("2025-06-09")), "holiday")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeProject(t, "project.json", `{not json`))
	assert.Error(t, err)

	_, err = Load(writeProject(t, "project.yaml", "activities: {bad"))
	assert.Error(t, err)

	_, err = Load(writeProject(t, "project.txt", yamlProject))
	assert.ErrorContains(t, err, "unsupported project file extension")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	// Parses but fails validation: dependency on an unknown activity.
	_, err = Load(writeProject(t, "project.json",
		`{"start": "2025-06-02", "activities": [{"id": "a"}], "dependencies": [{"from": "a", "to": "ghost"}]}`))
	assert.ErrorContains(t, err, "invalid project")

	// JSON requires an explicit start date.
	_, err = Load(writeProject(t, "project.json", `{"activities": []}`))
	assert.ErrorContains(t, err, "missing")
}
