package primitives

import "testing"

func TestNewEvent(t *testing.T) {
	e := NewEvent("showDashboard", map[string]any{"id": 1})
	if e.Name != "showDashboard" {
		t.Errorf("got Name=%q want showDashboard", e.Name)
	}
	if !e.HasContext() {
		t.Fatal("expected context")
	}
	m, ok := e.Contexts[0].(map[string]any)
	if !ok || m["id"] != 1 {
		t.Errorf("got Contexts=%v want [map[id:1]]", e.Contexts)
	}
}

func TestEventWithoutContext(t *testing.T) {
	e := NewEvent("logout")
	if e.HasContext() {
		t.Errorf("expected no context, got %v", e.Contexts)
	}
}
