package graph

import (
	"fmt"
	"strings"

	"github.com/mfriesen/ganttcore/internal/model"
)

// DepGraph is the precedence network over a plan's activities. Edges keep
// their dependency type and lag; node-level adjacency (NodeAdj/NodeRev)
// collapses parallel edges for ordering and cycle detection.
type DepGraph struct {
	Nodes   map[string]*model.Activity
	In      map[string][]model.Dependency // incoming edges by target
	Out     map[string][]model.Dependency // outgoing edges by source
	NodeAdj map[string][]string
	NodeRev map[string][]string
	Roots   []string
	Leaves  []string
}

// CycleError reports a dependency cycle; Path holds the cycle's activity
// ids in forward order. A pass that hits one leaves prior dates untouched.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}
