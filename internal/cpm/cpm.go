package cpm

import (
	"fmt"

	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/graph"
	"github.com/mfriesen/ganttcore/internal/model"
	"github.com/mfriesen/ganttcore/internal/rollup"
)

// Schedule performs calendar-aware critical path analysis on the plan:
// a forward pass computing early dates, a backward pass computing late
// dates and total float, then a summary rollup. Activity dates are
// written in place; a dependency cycle aborts before anything is
// mutated, so a failed reschedule leaves the plan untouched.
func Schedule(plan *model.Plan) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("validate plan: %w", err)
	}

	g, err := graph.Build(plan.Activities, plan.Dependencies)
	if err != nil {
		return nil, err
	}
	order, err := g.TopoOrder()
	if err != nil {
		return nil, err
	}

	children := plan.ChildrenIndex()
	cals := plan.CalendarSet()

	// Milestones always carry duration 0.
	for _, a := range plan.Activities {
		if a.Kind.IsMilestone() {
			a.Duration = 0
		}
	}

	forwardPass(plan, g, order, children, cals)
	finish := projectFinish(plan, children)
	plan.Finish = finish
	backwardPass(plan, g, order, children, cals, finish)

	result := &Result{
		ProjectFinish: finish,
		TopoOrder:     order,
	}
	for _, id := range order {
		a := g.Nodes[id]
		if plan.IsSummary(a, children) {
			continue
		}
		if a.Critical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	rollup.Apply(plan)
	return result, nil
}

// forwardPass computes early start/finish in topological order. Summary
// nodes are skipped here; they get their dates from the rollup.
func forwardPass(plan *model.Plan, g *graph.DepGraph, order []string, children map[string][]string, cals *calendar.Set) {
	for _, id := range order {
		a := g.Nodes[id]
		if plan.IsSummary(a, children) {
			continue
		}
		cal := cals.Resolve(a.CalendarID)

		es := cal.NextWorkingDay(plan.Start)
		var finishFloor calendar.Date
		hasFloor := false

		for _, e := range g.Predecessors(id) {
			pred := g.Nodes[e.From]
			if plan.IsSummary(pred, children) {
				continue
			}
			switch e.Kind() {
			case model.FinishToStart:
				es = es.Max(cal.AddWorkingDays(pred.EarlyFinish, e.Lag))
			case model.StartToStart:
				es = es.Max(cal.AddWorkingDays(pred.EarlyStart, e.Lag))
			case model.FinishToFinish:
				f := cal.AddWorkingDays(pred.EarlyFinish, e.Lag)
				if !hasFloor || f.After(finishFloor) {
					finishFloor, hasFloor = f, true
				}
			case model.StartToFinish:
				f := cal.AddWorkingDays(pred.EarlyStart, e.Lag)
				if !hasFloor || f.After(finishFloor) {
					finishFloor, hasFloor = f, true
				}
			}
		}

		a.EarlyStart = es
		ef := cal.AddWorkingDays(es, a.Duration)
		if hasFloor && finishFloor.After(ef) {
			ef = finishFloor
		}
		a.EarlyFinish = ef
	}
}

// projectFinish is the max early finish over all non-summary activities,
// falling back to the project start when there are none.
func projectFinish(plan *model.Plan, children map[string][]string) calendar.Date {
	finish := plan.Start
	for _, a := range plan.Activities {
		if plan.IsSummary(a, children) {
			continue
		}
		finish = finish.Max(a.EarlyFinish)
	}
	return finish
}

// backwardPass computes late start/finish and total float in reverse
// topological order. Every successor edge contributes a candidate late
// finish; the minimum wins and late start is derived from it once.
func backwardPass(plan *model.Plan, g *graph.DepGraph, order []string, children map[string][]string, cals *calendar.Set, finish calendar.Date) {
	for i := len(order) - 1; i >= 0; i-- {
		a := g.Nodes[order[i]]
		if plan.IsSummary(a, children) {
			continue
		}
		cal := cals.Resolve(a.CalendarID)

		lf := finish
		constrained := false
		for _, e := range g.Successors(a.ID) {
			succ := g.Nodes[e.To]
			if plan.IsSummary(succ, children) {
				continue
			}
			var cand calendar.Date
			switch e.Kind() {
			case model.FinishToStart:
				cand = cal.SubtractWorkingDays(succ.LateStart, e.Lag)
			case model.StartToStart:
				ls := cal.SubtractWorkingDays(succ.LateStart, e.Lag)
				cand = cal.AddWorkingDays(ls, a.Duration)
			case model.FinishToFinish:
				cand = cal.SubtractWorkingDays(succ.LateFinish, e.Lag)
			case model.StartToFinish:
				ls := cal.SubtractWorkingDays(succ.LateFinish, e.Lag)
				cand = cal.AddWorkingDays(ls, a.Duration)
			}
			if !constrained {
				lf = cand
				constrained = true
			} else {
				lf = lf.Min(cand)
			}
		}

		a.LateFinish = lf
		a.LateStart = cal.SubtractWorkingDays(lf, a.Duration)
		a.TotalFloat = a.EarlyStart.DaysUntil(a.LateStart)
		a.Critical = a.TotalFloat <= 0
	}
}
