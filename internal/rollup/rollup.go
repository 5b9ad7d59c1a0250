package rollup

import (
	"sort"

	"github.com/mfriesen/ganttcore/internal/model"
)

// Apply recomputes every summary node's span and percent complete from
// its children, deepest parents first so nested summaries see already
// rolled-up children. Leaf activities are left untouched.
func Apply(plan *model.Plan) {
	children := plan.ChildrenIndex()
	if len(children) == 0 {
		return
	}

	depths := depthIndex(plan)

	parents := make([]string, 0, len(children))
	for id := range children {
		parents = append(parents, id)
	}
	sort.Slice(parents, func(i, j int) bool {
		if depths[parents[i]] != depths[parents[j]] {
			return depths[parents[i]] > depths[parents[j]]
		}
		return parents[i] < parents[j]
	})

	for _, id := range parents {
		summary := plan.ActivityByID(id)
		if summary == nil {
			continue
		}
		rollUp(plan, summary, children[id])
	}
}

// depthIndex memoizes each activity's depth in the WBS tree so the
// bottom-up ordering never re-walks parent chains.
func depthIndex(plan *model.Plan) map[string]int {
	depths := make(map[string]int, len(plan.Activities))
	byID := make(map[string]*model.Activity, len(plan.Activities))
	for _, a := range plan.Activities {
		byID[a.ID] = a
	}

	var depth func(id string, guard int) int
	depth = func(id string, guard int) int {
		if d, ok := depths[id]; ok {
			return d
		}
		a := byID[id]
		d := 0
		// guard caps pathological parent chains (self-parenting data)
		if a != nil && a.ParentID != "" && guard < len(plan.Activities) {
			d = depth(a.ParentID, guard+1) + 1
		}
		depths[id] = d
		return d
	}

	for _, a := range plan.Activities {
		depth(a.ID, 0)
	}
	return depths
}

func rollUp(plan *model.Plan, summary *model.Activity, childIDs []string) {
	first := true
	var weightedPct, totalWeight float64

	for _, cid := range childIDs {
		child := plan.ActivityByID(cid)
		if child == nil || child.EarlyStart.IsZero() {
			continue
		}
		if first {
			summary.EarlyStart = child.EarlyStart
			summary.EarlyFinish = child.EarlyFinish
			first = false
		} else {
			summary.EarlyStart = summary.EarlyStart.Min(child.EarlyStart)
			summary.EarlyFinish = summary.EarlyFinish.Max(child.EarlyFinish)
		}

		// Minimum weight 1 so milestones still contribute.
		w := float64(child.Duration)
		if w < 1 {
			w = 1
		}
		weightedPct += child.PercentComplete * w
		totalWeight += w
	}
	if first {
		// No scheduled children; nothing to derive.
		return
	}

	// A summary must never be narrower than its children.
	if summary.LateFinish.IsZero() || summary.EarlyFinish.After(summary.LateFinish) {
		summary.LateFinish = summary.EarlyFinish
	}
	if summary.LateStart.IsZero() {
		summary.LateStart = summary.EarlyStart
	}

	// Envelope span in calendar days, not a working-day count.
	summary.Duration = summary.EarlyStart.DaysUntil(summary.EarlyFinish)
	if totalWeight > 0 {
		summary.PercentComplete = weightedPct / totalWeight
	}
}
