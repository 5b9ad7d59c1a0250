package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mfriesen/ganttcore/internal/cpm"
	"github.com/mfriesen/ganttcore/internal/evm"
	"github.com/mfriesen/ganttcore/internal/leveling"
	"github.com/mfriesen/ganttcore/internal/model"
	"github.com/mfriesen/ganttcore/internal/ui"
)

// Reporter renders scheduling results as terminal tables or JSON.
type Reporter struct {
	Plan     *model.Plan
	Result   *cpm.Result
	Leveling *leveling.Result
}

// New creates a Reporter for a scheduled plan.
func New(plan *model.Plan, result *cpm.Result) *Reporter {
	return &Reporter{Plan: plan, Result: result}
}

// WithLeveling attaches a leveling result so delay and over-allocation
// columns are shown.
func (r *Reporter) WithLeveling(lr *leveling.Result) *Reporter {
	r.Leveling = lr
	return r
}

// PrintSchedule writes the schedule table: one row per activity in WBS
// order, with early/late dates, float, and critical markers.
func (r *Reporter) PrintSchedule(w io.Writer) {
	fmt.Fprintf(w, "%s %s\n", ui.BoldCyan("◫ Schedule:"), ui.Bold(r.projectName()))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═══════════════════════════"))
	fmt.Fprintf(w, "Start:    %s\n", ui.Bold(r.Plan.Start))
	fmt.Fprintf(w, "Finish:   %s\n", ui.Bold(r.Plan.Finish))
	if len(r.Result.CriticalPath) > 0 {
		fmt.Fprintf(w, "Critical: %s\n", ui.BoldYellow("⚡ "+strings.Join(r.Result.CriticalPath, " → ")))
	}
	if r.Leveling != nil && len(r.Leveling.BoundExceeded) > 0 {
		fmt.Fprintf(w, "%s %s\n", ui.BoldRed("Over-allocated:"), strings.Join(r.Leveling.BoundExceeded, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-2s %-12s %-28s %-10s  %-10s  %6s  %s\n",
		"", "ID", "NAME", "START", "FINISH", "FLOAT", "")

	depths := r.depths()
	over := make(map[string]bool)
	if r.Leveling != nil {
		for _, id := range r.Leveling.BoundExceeded {
			over[id] = true
		}
	}

	for _, a := range r.Plan.Activities {
		indent := strings.Repeat("  ", depths[a.ID])
		name := indent + a.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}

		extra := ""
		if r.Leveling != nil {
			extra = ui.DelayMark(a.LevelingDelay, over[a.ID])
		} else if a.BaselineFinish != nil && a.EarlyFinish.After(*a.BaselineFinish) {
			extra = ui.Yellow(fmt.Sprintf("+%dd vs baseline", a.BaselineFinish.DaysUntil(a.EarlyFinish)))
		}

		fmt.Fprintf(w, "  %s %-12s %-28s %-10s  %-10s  %5dd  %s %s\n",
			ui.KindIcon(string(a.Kind)),
			ui.BoldMagenta(a.ID),
			name,
			a.EarlyStart, a.EarlyFinish,
			a.TotalFloat,
			ui.CriticalMark(a.Critical),
			extra)
	}
}

// PrintEVM writes the earned-value summary table.
func PrintEVM(w io.Writer, plan *model.Plan, m evm.Metrics) {
	fmt.Fprintf(w, "%s %s %s\n", ui.BoldCyan("◫ Earned Value:"), ui.Bold(plan.Name), ui.Dim("(as of "+m.AsOf.String()+")"))
	fmt.Fprintf(w, "%s\n", ui.Cyan("═══════════════════════════"))
	fmt.Fprintf(w, "BAC: %s   PV: %s   EV: %s   AC: %s\n",
		ui.Bold(money(m.BAC)), money(m.PV), money(m.EV), money(m.AC))
	fmt.Fprintf(w, "SV:  %s   CV: %s\n", variance(m.SV), variance(m.CV))
	fmt.Fprintf(w, "SPI: %s   CPI: %s\n", index(m.SPI), index(m.CPI))
	fmt.Fprintf(w, "EAC: %s   ETC: %s   VAC: %s\n", money(m.EAC), money(m.ETC), variance(m.VAC))
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func variance(v float64) string {
	s := fmt.Sprintf("%+.2f", v)
	if v < 0 {
		return ui.Red(s)
	}
	return ui.Green(s)
}

func index(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v != 0 && v < 1 {
		return ui.Red(s)
	}
	return ui.Green(s)
}

// JSON returns the machine-readable schedule.
func (r *Reporter) JSON() ([]byte, error) {
	type row struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Kind          string `json:"kind,omitempty"`
		EarlyStart    string `json:"early_start"`
		EarlyFinish   string `json:"early_finish"`
		LateStart     string `json:"late_start,omitempty"`
		LateFinish    string `json:"late_finish,omitempty"`
		TotalFloat    int    `json:"total_float"`
		Critical      bool   `json:"critical"`
		LevelingDelay int    `json:"leveling_delay,omitempty"`
	}
	type output struct {
		Project       string   `json:"project,omitempty"`
		Start         string   `json:"start"`
		Finish        string   `json:"finish"`
		CriticalPath  []string `json:"critical_path"`
		BoundExceeded []string `json:"bound_exceeded,omitempty"`
		Activities    []row    `json:"activities"`
	}

	o := output{
		Project:      r.Plan.Name,
		Start:        r.Plan.Start.String(),
		Finish:       r.Plan.Finish.String(),
		CriticalPath: r.Result.CriticalPath,
	}
	if r.Leveling != nil {
		o.BoundExceeded = r.Leveling.BoundExceeded
	}
	for _, a := range r.Plan.Activities {
		o.Activities = append(o.Activities, row{
			ID:            a.ID,
			Name:          a.Name,
			Kind:          string(a.Kind),
			EarlyStart:    a.EarlyStart.String(),
			EarlyFinish:   a.EarlyFinish.String(),
			LateStart:     a.LateStart.String(),
			LateFinish:    a.LateFinish.String(),
			TotalFloat:    a.TotalFloat,
			Critical:      a.Critical,
			LevelingDelay: a.LevelingDelay,
		})
	}
	return json.MarshalIndent(o, "", "  ")
}

func (r *Reporter) projectName() string {
	if r.Plan.Name != "" {
		return r.Plan.Name
	}
	return "(unnamed project)"
}

// depths maps each activity to its WBS depth for indentation.
func (r *Reporter) depths() map[string]int {
	byID := make(map[string]*model.Activity, len(r.Plan.Activities))
	for _, a := range r.Plan.Activities {
		byID[a.ID] = a
	}
	depths := make(map[string]int, len(byID))
	for _, a := range r.Plan.Activities {
		d := 0
		for cur := a; cur.ParentID != "" && d < len(byID); d++ {
			next, ok := byID[cur.ParentID]
			if !ok {
				break
			}
			cur = next
		}
		depths[a.ID] = d
	}
	return depths
}
