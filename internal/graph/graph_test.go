package graph

import (
	"errors"
	"testing"

	"github.com/mfriesen/ganttcore/internal/model"
)

func acts(ids ...string) []*model.Activity {
	var out []*model.Activity
	for _, id := range ids {
		out = append(out, &model.Activity{ID: id, Name: id})
	}
	return out
}

func buildTestGraph(t *testing.T, activities []*model.Activity, deps []model.Dependency) *DepGraph {
	t.Helper()
	g, err := Build(activities, deps)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func TestBuildAdjacency(t *testing.T) {
	g := buildTestGraph(t, acts("a", "b", "c"), []model.Dependency{
		{From: "a", To: "b"},
		{From: "a", To: "c", Type: model.StartToStart, Lag: 2},
		{From: "a", To: "b"}, // duplicate, deduped
	})

	if len(g.Out["a"]) != 2 {
		t.Errorf("expected 2 outgoing edges from a, got %d", len(g.Out["a"]))
	}
	if len(g.In["b"]) != 1 {
		t.Errorf("expected 1 incoming edge to b, got %d", len(g.In["b"]))
	}
	if got := g.NodeAdj["a"]; len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("node adjacency not sorted: %v", got)
	}
	if len(g.Roots) != 1 || g.Roots[0] != "a" {
		t.Errorf("roots = %v", g.Roots)
	}
	if len(g.Leaves) != 2 {
		t.Errorf("leaves = %v", g.Leaves)
	}
}

func TestBuildDropsUnknownEndpoints(t *testing.T) {
	g := buildTestGraph(t, acts("a"), []model.Dependency{
		{From: "a", To: "ghost"},
		{From: "ghost", To: "a"},
	})
	if len(g.Out["a"]) != 0 || len(g.In["a"]) != 0 {
		t.Error("edges to unknown activities should be dropped")
	}
}

func TestTopoOrder(t *testing.T) {
	// Diamond: a -> b -> d, a -> c -> d
	g := buildTestGraph(t, acts("a", "b", "c", "d"), []model.Dependency{
		{From: "a", To: "b"},
		{From: "a", To: "c"},
		{From: "b", To: "d"},
		{From: "c", To: "d"},
	})

	order, err := g.TopoOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 nodes, got %v", order)
	}

	pos := make(map[string]int)
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range []model.Dependency{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "b", To: "d"}, {From: "c", To: "d"}} {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("%s should precede %s in %v", e.From, e.To, order)
		}
	}
}

func TestCycleDetected(t *testing.T) {
	_, err := Build(acts("a", "b"), []model.Dependency{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
	})
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CycleError, got %T", err)
	}
	if len(cerr.Path) < 2 {
		t.Errorf("cycle path too short: %v", cerr.Path)
	}
}

func TestSelfCycleDetected(t *testing.T) {
	_, err := Build(acts("a"), []model.Dependency{{From: "a", To: "a"}})
	var cerr *CycleError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *CycleError for self-dependency, got %v", err)
	}
}
