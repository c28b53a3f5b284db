package core

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/comalice/staterouter/internal/primitives"
)

// planRoute resolves a URL path to a destination leaf and context.
func (r *Router) planRoute(path string) (*plan, error) {
	segs := primitives.SplitPath(path)
	for i, s := range segs {
		u, err := url.PathUnescape(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrNoMatchingRoute, path, err)
		}
		segs[i] = u
	}

	dest, captured, ok := r.match(r.root, segs, nil)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoMatchingRoute, path)
	}
	params, err := r.deserialize(captured)
	if err != nil {
		return nil, err
	}

	p, err := r.finish(OpRoute, "", dest, params)
	if err != nil {
		return nil, err
	}
	p.setURL = p.redirected || p.url != canonicalPath(segs)
	return p, nil
}

// match walks the children of n depth first in declaration order. A child
// whose pattern matches the head of segs is descended into; if its subtree
// cannot consume the rest, the next sibling is tried. Non-routable states
// and their subtrees take no part in URL resolution.
func (r *Router) match(n *node, segs []string, acc primitives.Context) (*node, primitives.Context, bool) {
	if len(segs) == 0 {
		return defaultLeaf(n), acc, true
	}
	for _, child := range n.children {
		if !child.routable {
			continue
		}
		captured, rest, ok := child.pattern.Match(segs)
		if !ok {
			continue
		}
		bound := acc.With()
		for _, p := range captured {
			p.State = child.path
			bound = append(bound, p)
		}
		if leaf, params, ok := r.match(child, rest, bound); ok {
			return leaf, params, true
		}
	}
	return nil, nil, false
}

// deserialize fills Value for captured params, through the ModelResolver
// when one is configured.
func (r *Router) deserialize(captured primitives.Context) (primitives.Context, error) {
	out := captured.With()
	for i, p := range out {
		out[i].Value = p.Raw
		if r.models == nil {
			continue
		}
		v, err := r.models.Deserialize(p.Name, p.Raw)
		if err != nil {
			return nil, fmt.Errorf("resolve :%s=%q: %w", p.Name, p.Raw, err)
		}
		out[i].Value = v
	}
	return out, nil
}

// followRedirects follows redirect links from dest. Params owned by states
// that stay on the new chain are carried over.
func (r *Router) followRedirects(dest *node, params primitives.Context) (*node, primitives.Context, bool, error) {
	redirected := false
	seen := make(map[*node]bool)
	for dest.redirect != nil {
		if seen[dest] || len(seen) >= r.maxRedirects {
			return nil, nil, false, fmt.Errorf("%w: at %s after %d redirects", ErrRedirectLoop, dest.path, len(seen))
		}
		seen[dest] = true

		next := defaultLeaf(dest.redirect)
		r.logger.Debug("redirect", zap.String("from", dest.path), zap.String("to", next.path))
		params = carryParams(params, next)
		dest = next
		redirected = true
	}
	return dest, params, redirected, nil
}

// carryParams keeps the params owned by states on dest's chain.
func carryParams(params primitives.Context, dest *node) primitives.Context {
	onChain := make(map[string]bool, len(dest.chain))
	for _, n := range dest.chain {
		onChain[n.path] = true
	}
	var out primitives.Context
	for _, p := range params {
		if onChain[p.State] {
			out = append(out, p)
		}
	}
	return out
}

func canonicalPath(segs []string) string {
	escaped := make([]string, len(segs))
	for i, s := range segs {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}
