package graph

import (
	"sort"

	"github.com/mfriesen/ganttcore/internal/model"
)

// Build constructs the precedence network from a plan's activities and
// dependencies. Edges referencing ids outside the activity set are
// dropped; duplicate edges (same endpoints, type, and lag) are deduped.
// Summary nodes participate structurally like any other node.
func Build(activities []*model.Activity, deps []model.Dependency) (*DepGraph, error) {
	g := &DepGraph{
		Nodes:   make(map[string]*model.Activity, len(activities)),
		In:      make(map[string][]model.Dependency),
		Out:     make(map[string][]model.Dependency),
		NodeAdj: make(map[string][]string),
		NodeRev: make(map[string][]string),
	}

	for _, a := range activities {
		g.Nodes[a.ID] = a
	}

	type edgeKey struct {
		from, to string
		typ      model.DepType
		lag      int
	}
	edgeSet := make(map[edgeKey]bool)
	nodeEdge := make(map[[2]string]bool)

	for _, d := range deps {
		if _, ok := g.Nodes[d.From]; !ok {
			continue
		}
		if _, ok := g.Nodes[d.To]; !ok {
			continue
		}
		key := edgeKey{d.From, d.To, d.Kind(), d.Lag}
		if edgeSet[key] {
			continue
		}
		edgeSet[key] = true
		g.Out[d.From] = append(g.Out[d.From], d)
		g.In[d.To] = append(g.In[d.To], d)

		nk := [2]string{d.From, d.To}
		if !nodeEdge[nk] {
			nodeEdge[nk] = true
			g.NodeAdj[d.From] = append(g.NodeAdj[d.From], d.To)
			g.NodeRev[d.To] = append(g.NodeRev[d.To], d.From)
		}
	}

	// Sort adjacency lists for deterministic ordering
	for k := range g.NodeAdj {
		sort.Strings(g.NodeAdj[k])
	}
	for k := range g.NodeRev {
		sort.Strings(g.NodeRev[k])
	}
	for k := range g.Out {
		sortEdges(g.Out[k])
	}
	for k := range g.In {
		sortEdges(g.In[k])
	}

	for id := range g.Nodes {
		if len(g.NodeRev[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.NodeAdj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}
	sort.Strings(g.Roots)
	sort.Strings(g.Leaves)

	if cycle := g.DetectCycle(); cycle != nil {
		return nil, &CycleError{Path: cycle}
	}

	return g, nil
}

func sortEdges(edges []model.Dependency) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Type < edges[j].Type
	})
}

// TopoOrder returns the activity ids in an order where every dependency
// source precedes its target, using Kahn's algorithm with sorted
// tie-breaking for determinism.
func (g *DepGraph) TopoOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.Nodes))
	for id := range g.Nodes {
		inDegree[id] = len(g.NodeRev[id])
	}

	var queue []string
	for id := range g.Nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, succ := range g.NodeAdj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.Nodes) {
		cycle := g.DetectCycle()
		return nil, &CycleError{Path: cycle}
	}

	return order, nil
}

// DetectCycle returns the cycle path if one exists, or nil if the graph
// is acyclic. Uses DFS with coloring: white (unvisited), gray (in
// progress), black (done).
func (g *DepGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.NodeAdj[node] {
			if color[next] == gray {
				// Found a cycle, reconstruct the path
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// Predecessors returns the incoming edges of an activity.
func (g *DepGraph) Predecessors(id string) []model.Dependency {
	return g.In[id]
}

// Successors returns the outgoing edges of an activity.
func (g *DepGraph) Successors(id string) []model.Dependency {
	return g.Out[id]
}

// NodeCount returns the number of activities in the graph.
func (g *DepGraph) NodeCount() int {
	return len(g.Nodes)
}
