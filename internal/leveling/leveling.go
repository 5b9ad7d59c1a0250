package leveling

import (
	"log"
	"sort"

	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/cpm"
	"github.com/mfriesen/ganttcore/internal/graph"
	"github.com/mfriesen/ganttcore/internal/model"
	"github.com/mfriesen/ganttcore/internal/rollup"
)

// capacity comparisons tolerate float accumulation noise
const eps = 1e-9

// Level resequences leaf activities so per-resource daily usage stays
// within capacity, using the serial method: a CPM baseline, then a
// priority-ordered eligible queue placed one activity at a time against
// sparse day-by-day usage accumulators. Summaries and milestones are
// never leveled and never block leveling.
func Level(plan *model.Plan, cfg Config) (*Result, error) {
	if _, err := cpm.Schedule(plan); err != nil {
		return nil, err
	}
	// Schedule succeeded, so the graph is acyclic.
	g, err := graph.Build(plan.Activities, plan.Dependencies)
	if err != nil {
		return nil, err
	}

	children := plan.ChildrenIndex()
	cals := plan.CalendarSet()

	lv := &leveler{
		plan:      plan,
		g:         g,
		cals:      cals,
		cfg:       cfg,
		baseES:    make(map[string]calendar.Date),
		leveled:   make(map[string]bool),
		levelable: make(map[string]bool),
		usage:     make(map[string]map[calendar.Date]float64),
	}

	for _, a := range plan.Activities {
		if plan.IsSummary(a, children) || a.Kind.IsMilestone() {
			// never leveling-blocking
			lv.leveled[a.ID] = true
			continue
		}
		lv.levelable[a.ID] = true
		lv.baseES[a.ID] = a.EarlyStart
	}

	lv.run()

	rollup.Apply(plan)
	plan.Finish = maxFinish(plan, children)

	sort.Strings(lv.boundExceeded)
	return &Result{
		ProjectFinish: plan.Finish,
		BoundExceeded: lv.boundExceeded,
	}, nil
}

type leveler struct {
	plan          *model.Plan
	g             *graph.DepGraph
	cals          *calendar.Set
	cfg           Config
	baseES        map[string]calendar.Date // CPM early starts, pre-leveling
	leveled       map[string]bool
	levelable     map[string]bool
	usage         map[string]map[calendar.Date]float64 // resource -> day -> units
	boundExceeded []string
}

func (lv *leveler) run() {
	eligible := lv.seedQueue()
	inQueue := make(map[string]bool, len(eligible))
	for _, id := range eligible {
		inQueue[id] = true
	}

	for len(eligible) > 0 {
		lv.sortQueue(eligible)
		id := eligible[0]
		eligible = eligible[1:]
		delete(inQueue, id)

		lv.place(lv.g.Nodes[id])
		lv.leveled[id] = true

		for _, succ := range lv.g.NodeAdj[id] {
			if lv.levelable[succ] && !lv.leveled[succ] && !inQueue[succ] && lv.predsLeveled(succ) {
				eligible = append(eligible, succ)
				inQueue[succ] = true
			}
		}
	}

	// Drain anything the queue never reached (defective input shapes);
	// placed in the same deterministic order.
	var rest []string
	for id := range lv.levelable {
		if !lv.leveled[id] {
			rest = append(rest, id)
		}
	}
	lv.sortQueue(rest)
	for _, id := range rest {
		lv.place(lv.g.Nodes[id])
		lv.leveled[id] = true
	}
}

func (lv *leveler) seedQueue() []string {
	var q []string
	for id := range lv.levelable {
		if lv.predsLeveled(id) {
			q = append(q, id)
		}
	}
	sort.Strings(q)
	return q
}

func (lv *leveler) predsLeveled(id string) bool {
	for _, pred := range lv.g.NodeRev[id] {
		if lv.levelable[pred] && !lv.leveled[pred] {
			return false
		}
	}
	return true
}

// sortQueue orders by original early start, then total float, then id
// for a deterministic tie-break.
func (lv *leveler) sortQueue(q []string) {
	sort.Slice(q, func(i, j int) bool {
		a, b := lv.g.Nodes[q[i]], lv.g.Nodes[q[j]]
		esA, esB := lv.baseES[a.ID], lv.baseES[b.ID]
		if !esA.Equal(esB) {
			return esA.Before(esB)
		}
		if a.TotalFloat != b.TotalFloat {
			return a.TotalFloat < b.TotalFloat
		}
		return a.ID < b.ID
	})
}

// place finds the earliest capacity-feasible start for a and commits its
// usage, recording the leveling delay against the CPM baseline.
func (lv *leveler) place(a *model.Activity) {
	cal := lv.cals.Resolve(a.CalendarID)

	// Effective earliest start: CPM early start pushed out by the leveled
	// finish of every already-leveled FS predecessor.
	eff := lv.baseES[a.ID]
	for _, e := range lv.g.Predecessors(a.ID) {
		if e.Kind() != model.FinishToStart {
			continue
		}
		if !lv.levelable[e.From] || !lv.leveled[e.From] {
			continue
		}
		pred := lv.g.Nodes[e.From]
		eff = eff.Max(cal.AddWorkingDays(pred.EarlyFinish, e.Lag))
	}
	eff = cal.NextWorkingDay(eff)

	start := eff
	if a.Duration > 0 && len(a.Assignments) > 0 {
		found := false
		for attempt := 0; attempt <= lv.cfg.maxScan(); attempt++ {
			cand := cal.AddWorkingDays(eff, attempt)
			if lv.fits(a, cal, cand) {
				start = cand
				found = true
				break
			}
		}
		if !found {
			log.Printf("warning: no capacity-feasible slot for %s within %d days, placing over-allocated", a.ID, lv.cfg.maxScan())
			lv.boundExceeded = append(lv.boundExceeded, a.ID)
			start = eff
		}
	}

	lv.commit(a, cal, start)

	a.LevelingDelay = lv.baseES[a.ID].DaysUntil(start)
	a.EarlyStart = start
	a.EarlyFinish = cal.AddWorkingDays(start, a.Duration)
}

// demand is the per-working-day draw of an assignment: the total amount
// spread evenly across the activity's duration.
func demand(a *model.Activity, amount float64) float64 {
	if a.Duration > 1 {
		return amount / float64(a.Duration)
	}
	return amount
}

func (lv *leveler) fits(a *model.Activity, cal *calendar.Calendar, start calendar.Date) bool {
	for i := 0; i < a.Duration; i++ {
		day := cal.AddWorkingDays(start, i)
		for _, asn := range a.Assignments {
			limit := 1.0
			if r := lv.plan.ResourceByID(asn.ResourceID); r != nil {
				limit = r.Capacity()
			}
			if lv.usage[asn.ResourceID][day]+demand(a, asn.Amount) > limit+eps {
				return false
			}
		}
	}
	return true
}

func (lv *leveler) commit(a *model.Activity, cal *calendar.Calendar, start calendar.Date) {
	for i := 0; i < a.Duration; i++ {
		day := cal.AddWorkingDays(start, i)
		for _, asn := range a.Assignments {
			if lv.usage[asn.ResourceID] == nil {
				lv.usage[asn.ResourceID] = make(map[calendar.Date]float64)
			}
			lv.usage[asn.ResourceID][day] += demand(a, asn.Amount)
		}
	}
}

func maxFinish(plan *model.Plan, children map[string][]string) calendar.Date {
	finish := plan.Start
	for _, a := range plan.Activities {
		if plan.IsSummary(a, children) {
			continue
		}
		finish = finish.Max(a.EarlyFinish)
	}
	return finish
}
