package evm

import (
	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/model"
)

// Metrics is the earned-value summary as of a given date. Monetary values
// are in the resources' cost units.
type Metrics struct {
	AsOf calendar.Date `json:"as_of"`

	BAC float64 `json:"bac"` // budget at completion
	PV  float64 `json:"pv"`  // planned value
	EV  float64 `json:"ev"`  // earned value
	AC  float64 `json:"ac"`  // actual cost

	SV  float64 `json:"sv"`  // schedule variance (EV - PV)
	CV  float64 `json:"cv"`  // cost variance (EV - AC)
	SPI float64 `json:"spi"` // schedule performance index
	CPI float64 `json:"cpi"` // cost performance index
	EAC float64 `json:"eac"` // estimate at completion
	ETC float64 `json:"etc"` // estimate to complete
	VAC float64 `json:"vac"` // variance at completion
}

// Calculate computes planned/earned value and derived indices for the
// plan as of asOf. Planned value is distributed calendar-aware across
// each activity's working-day span; earned value and actual cost are
// interpolated between the activity start and the project status date.
// Summary nodes are excluded from every sum so leaf costs are not
// double-counted.
func Calculate(plan *model.Plan, asOf calendar.Date) Metrics {
	if asOf.IsZero() {
		asOf = calendar.Today()
	}
	statusDate := asOf
	if plan.StatusDate != nil {
		statusDate = *plan.StatusDate
	}

	children := plan.ChildrenIndex()
	cals := plan.CalendarSet()

	m := Metrics{AsOf: asOf}
	for _, a := range plan.Activities {
		if plan.IsSummary(a, children) {
			continue
		}
		cal := cals.Resolve(a.CalendarID)
		bac := budgetAtCompletion(plan, a)
		m.BAC += bac
		m.PV += plannedValue(a, cal, bac, asOf)

		ev, ac := earnedAndActual(a, cal, bac, asOf, statusDate)
		m.EV += ev
		m.AC += ac
	}

	m.SV = m.EV - m.PV
	m.CV = m.EV - m.AC
	if m.PV != 0 {
		m.SPI = m.EV / m.PV
	}
	if m.AC != 0 {
		m.CPI = m.EV / m.AC
	}
	if m.CPI != 0 {
		m.EAC = m.BAC / m.CPI
	} else {
		m.EAC = m.BAC
	}
	m.ETC = m.EAC - m.AC
	m.VAC = m.BAC - m.EAC
	return m
}

// budgetAtCompletion is the explicit override when set, otherwise the sum
// of assignment amounts priced at each resource's unit cost.
func budgetAtCompletion(plan *model.Plan, a *model.Activity) float64 {
	if a.Budget != nil {
		return *a.Budget
	}
	var bac float64
	for _, asn := range a.Assignments {
		if r := plan.ResourceByID(asn.ResourceID); r != nil {
			bac += asn.Amount * r.CostPerUnit
		}
	}
	return bac
}

// plannedValue accrues BAC proportionally to working days elapsed within
// the activity's span up to asOf. A zero-duration activity that has
// started contributes its full BAC.
func plannedValue(a *model.Activity, cal *calendar.Calendar, bac float64, asOf calendar.Date) float64 {
	start := cal.NextWorkingDay(a.EarlyStart)
	if start.After(asOf) {
		return 0
	}
	total := cal.WorkingDaysBetween(start, a.EarlyFinish)
	if total <= 0 {
		return bac
	}
	// asOf itself counts as elapsed, hence the +1 day on the bound.
	elapsed := cal.WorkingDaysBetween(start, a.EarlyFinish.Min(asOf.AddDays(1)))
	if elapsed >= total {
		return bac
	}
	return bac * float64(elapsed) / float64(total)
}

// earnedAndActual returns the EV and AC contributions of one activity:
// zero before it starts, the full current values at or beyond the status
// date, and a linear interpolation over the start→status-date interval
// in between.
func earnedAndActual(a *model.Activity, cal *calendar.Calendar, bac float64, asOf, statusDate calendar.Date) (float64, float64) {
	start := cal.NextWorkingDay(a.EarlyStart)
	if asOf.Before(start) {
		return 0, 0
	}

	fullEV := bac * a.PercentComplete / 100
	fullAC := a.ActualCost
	if !asOf.Before(statusDate) {
		return fullEV, fullAC
	}

	span := start.DaysUntil(statusDate)
	if span <= 0 {
		return fullEV, fullAC
	}
	frac := float64(start.DaysUntil(asOf)) / float64(span)
	if frac > 1 {
		frac = 1
	}
	return fullEV * frac, fullAC * frac
}
