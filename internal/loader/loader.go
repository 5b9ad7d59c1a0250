package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/model"
)

// Load reads a project file, dispatching on extension: .yaml/.yml via
// the YAML decoder, .json via tolerant field extraction. The returned
// plan is validated.
func Load(path string) (*model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	var plan *model.Plan
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		plan, err = ParseJSON(data)
	case ".yaml", ".yml", "":
		plan, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported project file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}
	return plan, nil
}

// ParseYAML decodes a YAML project document.
func ParseYAML(data []byte) (*model.Plan, error) {
	var plan model.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse project yaml: %w", err)
	}
	return &plan, nil
}

// ParseJSON decodes a JSON project document. Field access is tolerant:
// unknown fields are ignored and absent ones default, so exports from
// other tools load without a strict schema match.
func ParseJSON(data []byte) (*model.Plan, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parse project json: invalid document")
	}
	root := gjson.ParseBytes(data)

	plan := &model.Plan{
		Name:              root.Get("name").String(),
		DefaultCalendarID: root.Get("default_calendar").String(),
	}

	var err error
	if plan.Start, err = dateField(root, "start"); err != nil {
		return nil, err
	}
	if sd := root.Get("status_date"); sd.Exists() {
		d, derr := calendar.ParseDate(sd.String())
		if derr != nil {
			return nil, derr
		}
		plan.StatusDate = &d
	}

	root.Get("activities").ForEach(func(_, item gjson.Result) bool {
		a := &model.Activity{
			ID:              item.Get("id").String(),
			Name:            item.Get("name").String(),
			Kind:            model.ActivityKind(item.Get("kind").String()),
			ParentID:        item.Get("parent").String(),
			Duration:        int(item.Get("duration").Int()),
			PercentComplete: item.Get("percent_complete").Float(),
			CalendarID:      item.Get("calendar").String(),
			ActualCost:      item.Get("actual_cost").Float(),
		}
		if b := item.Get("budget"); b.Exists() {
			v := b.Float()
			a.Budget = &v
		}
		item.Get("assignments").ForEach(func(_, asn gjson.Result) bool {
			a.Assignments = append(a.Assignments, model.Assignment{
				ResourceID: asn.Get("resource").String(),
				Amount:     asn.Get("amount").Float(),
			})
			return true
		})
		plan.Activities = append(plan.Activities, a)
		return true
	})

	root.Get("dependencies").ForEach(func(_, item gjson.Result) bool {
		plan.Dependencies = append(plan.Dependencies, model.Dependency{
			From: item.Get("from").String(),
			To:   item.Get("to").String(),
			Type: model.DepType(item.Get("type").String()),
			Lag:  int(item.Get("lag").Int()),
		})
		return true
	})

	root.Get("resources").ForEach(func(_, item gjson.Result) bool {
		plan.Resources = append(plan.Resources, &model.Resource{
			ID:          item.Get("id").String(),
			Name:        item.Get("name").String(),
			Unit:        item.Get("unit").String(),
			CostPerUnit: item.Get("cost_per_unit").Float(),
			MaxDaily:    item.Get("max_daily").Float(),
		})
		return true
	})

	var calErr error
	root.Get("calendars").ForEach(func(_, item gjson.Result) bool {
		c := &calendar.Calendar{
			ID:          item.Get("id").String(),
			Name:        item.Get("name").String(),
			HoursPerDay: item.Get("hours_per_day").Float(),
			Default:     item.Get("default").Bool(),
		}
		wd := item.Get("work_days")
		if wd.Exists() {
			i := 0
			wd.ForEach(func(_, flag gjson.Result) bool {
				if i < 7 {
					c.WorkDays[i] = flag.Bool()
				}
				i++
				return true
			})
		} else {
			c.WorkDays = calendar.Standard().WorkDays
		}
		item.Get("holidays").ForEach(func(_, h gjson.Result) bool {
			d, derr := calendar.ParseDate(h.String())
			if derr != nil {
				calErr = fmt.Errorf("calendar %s: %w", c.ID, derr)
				return false
			}
			c.Holidays = append(c.Holidays, d)
			return true
		})
		plan.Calendars = append(plan.Calendars, c)
		return calErr == nil
	})
	if calErr != nil {
		return nil, calErr
	}

	return plan, nil
}

func dateField(root gjson.Result, key string) (calendar.Date, error) {
	v := root.Get(key)
	if !v.Exists() {
		return calendar.Date{}, fmt.Errorf("project json: missing %q", key)
	}
	return calendar.ParseDate(v.String())
}
