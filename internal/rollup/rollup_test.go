package rollup

import (
	"testing"

	"github.com/mfriesen/ganttcore/internal/calendar"
	"github.com/mfriesen/ganttcore/internal/model"
)

func d(s string) calendar.Date { return calendar.MustParseDate(s) }

func TestApplyEnvelope(t *testing.T) {
	plan := &model.Plan{
		Activities: []*model.Activity{
			{ID: "root", Kind: model.KindSummary},
			{ID: "a", ParentID: "root", Duration: 5, PercentComplete: 100,
				EarlyStart: d("2025-06-02"), EarlyFinish: d("2025-06-09")},
			{ID: "b", ParentID: "root", Duration: 3, PercentComplete: 0,
				EarlyStart: d("2025-06-09"), EarlyFinish: d("2025-06-12")},
		},
	}
	Apply(plan)

	root := plan.ActivityByID("root")
	if root.EarlyStart != d("2025-06-02") || root.EarlyFinish != d("2025-06-12") {
		t.Errorf("envelope = %s..%s", root.EarlyStart, root.EarlyFinish)
	}
	if root.Duration != 10 {
		t.Errorf("duration = %d, want 10 calendar days", root.Duration)
	}
	// (100*5 + 0*3) / 8
	if root.PercentComplete != 62.5 {
		t.Errorf("percent = %v, want 62.5", root.PercentComplete)
	}
	if root.LateFinish != root.EarlyFinish {
		t.Errorf("late finish = %s, should match envelope", root.LateFinish)
	}
}

func TestApplyMilestoneWeight(t *testing.T) {
	plan := &model.Plan{
		Activities: []*model.Activity{
			{ID: "root", Kind: model.KindSummary},
			{ID: "a", ParentID: "root", Duration: 3, PercentComplete: 0,
				EarlyStart: d("2025-06-02"), EarlyFinish: d("2025-06-05")},
			{ID: "m", ParentID: "root", Kind: model.KindFinishMilestone, PercentComplete: 100,
				EarlyStart: d("2025-06-05"), EarlyFinish: d("2025-06-05")},
		},
	}
	Apply(plan)

	// Zero-duration milestone still carries weight 1: (0*3 + 100*1) / 4.
	if got := plan.ActivityByID("root").PercentComplete; got != 25 {
		t.Errorf("percent = %v, want 25", got)
	}
}

func TestApplyNested(t *testing.T) {
	plan := &model.Plan{
		Activities: []*model.Activity{
			{ID: "top", Kind: model.KindSummary},
			{ID: "mid", ParentID: "top", Kind: model.KindSummary},
			{ID: "leaf", ParentID: "mid", Duration: 2, PercentComplete: 50,
				EarlyStart: d("2025-06-02"), EarlyFinish: d("2025-06-04")},
		},
	}
	Apply(plan)

	for _, id := range []string{"mid", "top"} {
		s := plan.ActivityByID(id)
		if s.EarlyStart != d("2025-06-02") || s.EarlyFinish != d("2025-06-04") {
			t.Errorf("%s envelope = %s..%s", id, s.EarlyStart, s.EarlyFinish)
		}
		if s.PercentComplete != 50 {
			t.Errorf("%s percent = %v, want 50", id, s.PercentComplete)
		}
	}
}

func TestApplySkipsUnscheduledChildren(t *testing.T) {
	plan := &model.Plan{
		Activities: []*model.Activity{
			{ID: "root", Kind: model.KindSummary},
			{ID: "a", ParentID: "root", Duration: 2}, // never scheduled
		},
	}
	Apply(plan)

	if !plan.ActivityByID("root").EarlyStart.IsZero() {
		t.Error("summary over unscheduled children should stay unscheduled")
	}
}
