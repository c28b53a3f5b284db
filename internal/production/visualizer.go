package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/comalice/staterouter/internal/primitives"
)

// DefaultVisualizer renders the routing tree as Graphviz DOT or JSON.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the state tree. States on the
// active chain ending at current are highlighted; event transitions are
// solid edges, redirects dashed.
func (v *DefaultVisualizer) ExportDOT(config primitives.RouterConfig, current string) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Router {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	active := make(map[string]bool)
	if current != "" {
		for _, path := range primitives.Ancestors(current) {
			active[path] = true
		}
	}

	if config.Root != nil {
		renderState(&buf, config.Root, config.Root.Name, active, current)
	}
	for _, edge := range collectEdges(config) {
		attrs := fmt.Sprintf(`label="%s"`, edge.Label)
		if edge.Redirect {
			attrs += " style=dashed"
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", edge.From, edge.To, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the router config to JSON. Hooks and handler
// functions are omitted.
func (v *DefaultVisualizer) ExportJSON(config primitives.RouterConfig) ([]byte, error) {
	return json.MarshalIndent(config, "", "  ")
}

// Edge represents a transition or redirect edge.
type Edge struct {
	From     string
	To       string
	Label    string
	Redirect bool
}

// collectEdges collects literal transitions and redirects in a stable order.
func collectEdges(config primitives.RouterConfig) []Edge {
	var edges []Edge
	if config.Root == nil {
		return nil
	}
	_ = config.Root.Walk("", func(path string, state *primitives.StateConfig) error {
		events := make([]string, 0, len(state.On))
		for event := range state.On {
			events = append(events, event)
		}
		sort.Strings(events)
		for _, event := range events {
			trans := state.On[event]
			if trans.Target == "" {
				continue
			}
			if to, err := config.ResolveTarget(path, trans.Target); err == nil {
				edges = append(edges, Edge{From: path, To: to, Label: event})
			}
		}
		if state.RedirectsTo != "" {
			if to, err := config.ResolveTarget(path, state.RedirectsTo); err == nil {
				edges = append(edges, Edge{From: path, To: to, Label: "redirect", Redirect: true})
			}
		}
		return nil
	})
	return edges
}

// renderState recursively renders states; states with children become clusters.
func renderState(buf *bytes.Buffer, state *primitives.StateConfig, path string, active map[string]bool, current string) {
	label := state.Name
	if state.Route != "" {
		label += `\n` + state.Route
	}

	if len(state.Children) == 0 {
		style := ""
		if path == current {
			style = ` style=filled fillcolor=lightgreen`
		}
		fmt.Fprintf(buf, "  %q [label=\"%s\"%s];\n", path, label, style)
		return
	}

	fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+path)
	parentStyle := ""
	if active[path] {
		parentStyle = ` style=filled fillcolor=orange`
	}
	fmt.Fprintf(buf, "    label=\"%s\";\n", state.Name)
	fmt.Fprintf(buf, "    %q [label=\"%s\" shape=ellipse%s];\n", path, label, parentStyle)
	for _, child := range state.Children {
		renderState(buf, child, path+"."+child.Name, active, current)
	}
	buf.WriteString("  }\n")
}
