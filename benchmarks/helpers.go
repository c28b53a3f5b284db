// Package benchmarks provides shared helpers for router benchmarks.
package benchmarks

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/staterouter/internal/core"
	"github.com/comalice/staterouter/internal/primitives"
)

// GenFlatConfig creates n sibling states "/s0" ... "/s<n-1>", each with a
// "next" event to the following sibling. Matching "/s<n-1>" tries every
// sibling first.
func GenFlatConfig(n int) primitives.RouterConfig {
	if n < 1 {
		n = 1
	}
	root := primitives.NewStateConfig("root", "")
	for i := 0; i < n; i++ {
		root.State(fmt.Sprintf("s%d", i), fmt.Sprintf("/s%d", i)).
			Transition("next", fmt.Sprintf("s%d", (i+1)%n))
	}
	return primitives.RouterConfig{ID: fmt.Sprintf("flat_%d", n), Root: root}
}

// GenDeepConfig nests depth states "/c0/:id0/c1/:id1/..." with two leaves
// at the bottom that flip on "tick".
func GenDeepConfig(depth int) primitives.RouterConfig {
	if depth < 1 {
		depth = 1
	}
	root := primitives.NewStateConfig("root", "")
	s := root
	for i := 0; i < depth; i++ {
		s = s.State(fmt.Sprintf("c%d", i), fmt.Sprintf("/c%d/:c%d_id", i, i))
	}
	s.State("leaf1", "/").Transition("tick", "leaf2")
	s.State("leaf2", "/other").Transition("tick", "leaf1")
	return primitives.RouterConfig{ID: fmt.Sprintf("deep_%d", depth), Root: root}
}

// DeepPath returns a URL matching GenDeepConfig(depth)'s first leaf.
func DeepPath(depth int) string {
	var b strings.Builder
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, "/c%d/%d", i, i)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// GenBacktrackConfig creates n parameterized siblings that each match any
// two-segment URL but only have a child for "/<i>/x<i>", so resolving the
// last one backtracks through every earlier sibling.
func GenBacktrackConfig(n int) primitives.RouterConfig {
	if n < 1 {
		n = 1
	}
	root := primitives.NewStateConfig("root", "")
	for i := 0; i < n; i++ {
		p := root.State(fmt.Sprintf("p%d", i), fmt.Sprintf("/:p%d", i))
		p.State("leaf", fmt.Sprintf("/x%d", i))
	}
	return primitives.RouterConfig{ID: fmt.Sprintf("backtrack_%d", n), Root: root}
}

// GenSnapshotYAML generates YAML bytes for a snapshot of a deep router.
func GenSnapshotYAML(depth int) []byte {
	r, err := core.New(GenDeepConfig(depth))
	if err != nil {
		panic(err)
	}
	if err := r.Route(context.Background(), DeepPath(depth)); err != nil {
		panic(err)
	}
	data, err := yaml.Marshal(r.Snapshot())
	if err != nil {
		panic(err)
	}
	return data
}
