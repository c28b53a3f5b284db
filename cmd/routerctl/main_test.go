package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", "testdata/router.yaml", "--log-level", "error", "--log-format", "json"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: dashboard")
	assert.Contains(t, out, "hooks: loadComponent, trackExit")
	assert.Contains(t, out, "handlers: openComponent")
}

func TestValidateMissingFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "testdata/missing.yaml", "validate"})
	assert.Error(t, cmd.Execute())
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", "/dashboard/42")
	require.NoError(t, err)
	assert.Equal(t, "root.dashboard.component\n  component_id=42\n", out)

	_, err = run(t, "resolve", "/nowhere")
	assert.Error(t, err)
}

func TestURL(t *testing.T) {
	out, err := run(t, "url", "showDashboard")
	require.NoError(t, err)
	assert.Equal(t, "#!#/dashboard\n", out)

	out, err = run(t, "url", "showIndex", "--from", "/dashboard/7")
	require.NoError(t, err)
	assert.Equal(t, "#!#/dashboard\n", out)
}

func TestSendWithBoundHandler(t *testing.T) {
	out, err := run(t, "--bind", "openComponent=component", "send", "showComponent",
		"--from", "/dashboard", "--context", "id=9")
	require.NoError(t, err)
	assert.Equal(t, "root.dashboard.index -> root.dashboard.component\n#!#/dashboard/9\n", out)
}

func TestSendUnboundHandler(t *testing.T) {
	_, err := run(t, "send", "showComponent", "--from", "/dashboard", "--context", "9")
	assert.Error(t, err)
}

func TestBadBinding(t *testing.T) {
	_, err := run(t, "--bind", "nope", "validate")
	assert.ErrorContains(t, err, "want id=target")
}

func TestDot(t *testing.T) {
	out, err := run(t, "dot", "--at", "/dashboard/3")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph Router")
	assert.Contains(t, out, `"root.dashboard.component" [label="component\n/:component_id" style=filled fillcolor=lightgreen]`)
}

func TestParseContexts(t *testing.T) {
	got := parseContexts([]string{"id=1", "plain", "=x"})
	assert.Equal(t, []any{map[string]any{"id": "1"}, "plain", "=x"}, got)
}
