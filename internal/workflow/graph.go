package workflow

import (
	"fmt"

	"github.com/rms-collector/backend/internal/config"
)

// Edge is a directed slot dependency. Child is unlocked by Parent's file
// presence; when RequiresConfirmed is set the parent section must also be
// in the uploaded state.
type Edge struct {
	Parent            string
	Child             string
	RequiresConfirmed bool
}

// Graph holds the static dependency relationships between slots and between
// sections. It is fixed at configuration time and never mutated afterwards.
type Graph struct {
	parentOf    map[string]Edge   // child slot -> its incoming edge
	childrenOf  map[string][]Edge // parent slot -> outgoing edges
	sectionDeps map[string]string // section -> upstream section
}

// NewGraph builds the dependency graph from the workflow layout. It rejects
// slots with more than one parent and cyclic dependencies.
func NewGraph(cfg config.WorkflowConfig) (*Graph, error) {
	g := &Graph{
		parentOf:    make(map[string]Edge),
		childrenOf:  make(map[string][]Edge),
		sectionDeps: make(map[string]string),
	}

	for _, e := range cfg.Edges {
		edge := Edge{Parent: e.Parent, Child: e.Child, RequiresConfirmed: e.RequiresConfirmed}
		if prev, ok := g.parentOf[e.Child]; ok {
			return nil, fmt.Errorf("slot %q has two parents: %q and %q", e.Child, prev.Parent, e.Parent)
		}
		g.parentOf[e.Child] = edge
		g.childrenOf[e.Parent] = append(g.childrenOf[e.Parent], edge)
	}

	for _, sec := range cfg.Sections {
		if sec.DependsOn != "" {
			g.sectionDeps[sec.Name] = sec.DependsOn
		}
	}

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	return g, nil
}

// ParentOf returns the incoming dependency edge for a slot, if it has one.
func (g *Graph) ParentOf(slot string) (Edge, bool) {
	e, ok := g.parentOf[slot]
	return e, ok
}

// ChildrenOf returns the outgoing dependency edges for a slot.
func (g *Graph) ChildrenOf(slot string) []Edge {
	return g.childrenOf[slot]
}

// UpstreamOf returns the section a given section depends on, if any.
func (g *Graph) UpstreamOf(section string) (string, bool) {
	up, ok := g.sectionDeps[section]
	return up, ok
}

// detectCycles runs a depth-first search over slot edges and section
// dependencies. Each uses the classic permanent/temporary marking scheme.
func (g *Graph) detectCycles() error {
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(slot string) error
	visit = func(slot string) error {
		if permanent[slot] {
			return nil
		}
		if temporary[slot] {
			return fmt.Errorf("cycle detected involving slot %q", slot)
		}
		temporary[slot] = true
		for _, e := range g.childrenOf[slot] {
			if err := visit(e.Child); err != nil {
				return err
			}
		}
		delete(temporary, slot)
		permanent[slot] = true
		return nil
	}

	for parent := range g.childrenOf {
		if err := visit(parent); err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	for sec := range g.sectionDeps {
		chain := make(map[string]bool)
		for cur := sec; ; {
			if seen[cur] {
				break
			}
			if chain[cur] {
				return fmt.Errorf("cycle detected involving section %q", cur)
			}
			chain[cur] = true
			up, ok := g.sectionDeps[cur]
			if !ok {
				break
			}
			cur = up
		}
		for s := range chain {
			seen[s] = true
		}
	}

	return nil
}
