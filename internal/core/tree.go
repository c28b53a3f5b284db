// Compiled state tree and the precomputed path caches the runtime walks.

package core

import (
	"fmt"

	"github.com/comalice/staterouter/internal/primitives"
)

// node is a compiled StateConfig. Nodes are compared by identity; two nodes
// never share a path.
type node struct {
	name     string
	path     string
	depth    int
	parent   *node
	children []*node
	config   *primitives.StateConfig
	pattern  primitives.Pattern
	routable bool

	// chain holds root..self.
	chain []*node
	// initial is the default child descended into when the node is a
	// destination; redirect is the resolved redirect target.
	initial  *node
	redirect *node
}

// compileTree builds nodes for every state and fills stateCache[path].
// A second pass wires initial children and redirects, which may point
// anywhere in the tree.
func compileTree(config *primitives.RouterConfig) (*node, map[string]*node, error) {
	stateCache := make(map[string]*node)
	root, err := precomputePaths(config.Root, nil, stateCache)
	if err != nil {
		return nil, nil, err
	}

	for path, n := range stateCache {
		n.initial = defaultChild(n)
		if n.config.RedirectsTo == "" {
			continue
		}
		target, err := config.ResolveTarget(path, n.config.RedirectsTo)
		if err != nil {
			return nil, nil, fmt.Errorf("redirect of %s: %w", path, err)
		}
		n.redirect = stateCache[target]
	}
	if err := checkRedirectCycles(stateCache); err != nil {
		return nil, nil, err
	}
	return root, stateCache, nil
}

// checkRedirectCycles follows each redirect the way the resolver does,
// landing on the default leaf of every target, and fails on a revisit.
func checkRedirectCycles(stateCache map[string]*node) error {
	for path, n := range stateCache {
		if n.redirect == nil {
			continue
		}
		seen := map[*node]bool{n: true}
		for d := n; d.redirect != nil; {
			d = defaultLeaf(d.redirect)
			if seen[d] {
				return fmt.Errorf("redirect cycle through %s", path)
			}
			seen[d] = true
		}
	}
	return nil
}

// precomputePaths recursively compiles state and its descendants.
func precomputePaths(state *primitives.StateConfig, parent *node, stateCache map[string]*node) (*node, error) {
	pattern, err := primitives.ParsePattern(state.Route)
	if err != nil {
		return nil, err
	}

	n := &node{
		name:     state.Name,
		path:     state.Name,
		parent:   parent,
		config:   state,
		pattern:  pattern,
		routable: state.Routable(),
	}
	if parent != nil {
		n.path = parent.path + "." + state.Name
		n.depth = parent.depth + 1
		n.chain = append(make([]*node, 0, len(parent.chain)+1), parent.chain...)
	}
	n.chain = append(n.chain, n)
	stateCache[n.path] = n

	for _, child := range state.Children {
		c, err := precomputePaths(child, n, stateCache)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, c)
	}
	return n, nil
}

// defaultChild picks the child entered when n itself is a destination: the
// declared initial child, else the first routable child with an empty route.
// An initial child that needs its own dynamic segments cannot be entered
// without context and is ignored.
func defaultChild(n *node) *node {
	if n.config.Initial != "" {
		for _, c := range n.children {
			if c.name == n.config.Initial && len(c.pattern.Params()) == 0 {
				return c
			}
		}
	}
	for _, c := range n.children {
		if c.routable && c.pattern.Empty() {
			return c
		}
	}
	return nil
}

// defaultLeaf follows default children from n down to a leaf.
func defaultLeaf(n *node) *node {
	for n.initial != nil {
		n = n.initial
	}
	return n
}

// paths returns the state paths of nodes, in order.
func paths(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.path
	}
	return out
}
