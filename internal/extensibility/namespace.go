package extensibility

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Finder loads a model by its URL id.
type Finder func(id string) (any, error)

// Namespace resolves "<type>_id" segments into models: ":component_id"
// is looked up through the Finder registered as "Component", and
// ":blog_post_id" through "BlogPost". Other segments keep their raw value.
type Namespace struct {
	mu      sync.RWMutex
	finders map[string]Finder
}

// NewNamespace creates an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{finders: make(map[string]Finder)}
}

// Register binds a model type name to its Finder.
func (n *Namespace) Register(model string, find Finder) *Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finders[model] = find
	return n
}

// Deserialize implements core.ModelResolver.
func (n *Namespace) Deserialize(param, raw string) (any, error) {
	base, ok := strings.CutSuffix(param, "_id")
	if !ok || base == "" {
		return raw, nil
	}
	model := ModelName(base)

	n.mu.RLock()
	find, ok := n.finders[model]
	n.mu.RUnlock()
	if !ok {
		return raw, nil
	}

	v, err := find(raw)
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", model, raw, err)
	}
	return v, nil
}

// ModelName converts a snake_case segment prefix into a type name.
func ModelName(base string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, part := range strings.FieldsFunc(base, func(r rune) bool { return r == '_' || r == '-' }) {
		b.WriteString(caser.String(part))
	}
	return b.String()
}
