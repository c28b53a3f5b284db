package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/staterouter/internal/extensibility"
)

func TestLoadYAML(t *testing.T) {
	f, err := Load("testdata/dashboard.yaml")
	require.NoError(t, err)

	assert.Equal(t, "dashboard", f.ID)
	assert.Equal(t, "hash", f.Location.Kind)

	cfg := f.RouterConfig()
	component, err := cfg.FindState("root.dashboard.component")
	require.NoError(t, err)
	assert.Equal(t, "/:component_id", component.Route)
	assert.Equal(t, []any{"loadComponent"}, toAny(component.Entry))

	index, err := cfg.FindState("root.dashboard.index")
	require.NoError(t, err)
	assert.Equal(t, "openComponent", index.On["showComponent"].Handler)

	hooks, handlers := f.HookIDs()
	assert.Equal(t, []string{"loadComponent", "trackExit"}, hooks)
	assert.Equal(t, []string{"openComponent"}, handlers)

	loc := f.Location.Build()
	assert.Equal(t, "#!#/dashboard", loc.FormatURL("/dashboard"))
}

func TestLoadJSON(t *testing.T) {
	f, err := Load("testdata/dashboard.json")
	require.NoError(t, err)

	rc := f.RouterConfig()
	index, err := rc.FindState("root.index")
	require.NoError(t, err)
	assert.Equal(t, "login", index.RedirectsTo)
	assert.IsType(t, &extensibility.MemoryLocation{}, f.Location.Build())
}

func TestLoadTOML(t *testing.T) {
	f, err := Load("testdata/dashboard.toml")
	require.NoError(t, err)

	assert.Equal(t, "/dashboard", f.InitialPath)
	assert.Equal(t, 4, f.MaxRedirects)
	rc := f.RouterConfig()
	index, err := rc.FindState("root.index")
	require.NoError(t, err)
	assert.Equal(t, "dashboard", index.On["showDashboard"].Target)
}

func TestTargetAndHandlerOnSameEvent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "both.yaml")
	body := "root:\n  name: root\n  children:\n    - name: index\n      route: /\n      on:\n        open: item\n      handlers:\n        open: openItem\n    - name: item\n      route: /item\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	rc := f.RouterConfig()
	index, err := rc.FindState("root.index")
	require.NoError(t, err)

	trans := index.On["open"]
	assert.Equal(t, "item", trans.Target)
	assert.Equal(t, "openItem", trans.Handler)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"unknown extension", write("router.ini", ""), "unknown config format"},
		{"missing file", filepath.Join(dir, "missing.yaml"), "no such file"},
		{"unknown field", write("extra.yaml", "root:\n  name: root\n  colour: red\n"), "colour"},
		{"missing root name", write("noname.json", `{"root": {"route": ""}}`), "Name"},
		{"dotted state name", write("dotted.yaml", "root:\n  name: root\n  children:\n    - name: a.b\n      route: /a\n"), "Name"},
		{"bad location kind", write("loc.yaml", "location:\n  kind: cookie\nroot:\n  name: root\n"), "Kind"},
		{"unknown target", write("target.yaml", "root:\n  name: root\n  children:\n    - name: a\n      route: /a\n      on:\n        go: nowhere\n"), "nowhere"},
		{"redirect cycle", write("cycle.toml", "[root]\nname = \"root\"\n[[root.children]]\nname = \"a\"\nroute = \"/a\"\nredirects_to = \"b\"\n[[root.children]]\nname = \"b\"\nroute = \"/b\"\nredirects_to = \"a\"\n"), "redirect cycle"},
		{"unknown toml key", write("extra.toml", "[root]\nname = \"root\"\ncolour = \"red\"\n"), "unknown keys"},
		{"initial path without slash", write("initial.yaml", "initialPath: login\nroot:\n  name: root\n"), "InitialPath"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckIDs(t *testing.T) {
	f, err := Load("testdata/dashboard.yaml")
	require.NoError(t, err)

	reg := extensibility.NewRegistry()
	err = f.CheckIDs(reg)
	require.Error(t, err)
	for _, id := range []string{"loadComponent", "trackExit", "openComponent"} {
		assert.True(t, strings.Contains(err.Error(), id), "missing %s in %v", id, err)
	}

	reg.RegisterHook("loadComponent", nil).RegisterHook("trackExit", nil).RegisterHandler("openComponent", nil)
	assert.NoError(t, f.CheckIDs(reg))
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
