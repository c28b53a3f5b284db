package primitives

import (
	"strings"
	"testing"
)

func TestStateConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		newConfig   func() *StateConfig
		wantErr     bool
		errContains string
	}{
		{
			name: "valid leaf",
			newConfig: func() *StateConfig {
				return NewStateConfig("dashboard", "/dashboard")
			},
		},
		{
			name: "missing name",
			newConfig: func() *StateConfig {
				return NewStateConfig("", "/")
			},
			wantErr:     true,
			errContains: "name is required",
		},
		{
			name: "dotted name",
			newConfig: func() *StateConfig {
				return NewStateConfig("a.b", "/")
			},
			wantErr:     true,
			errContains: "invalid state name",
		},
		{
			name: "duplicate dynamic segment",
			newConfig: func() *StateConfig {
				return NewStateConfig("posts", "/:id/:id")
			},
			wantErr:     true,
			errContains: "duplicate dynamic segment",
		},
		{
			name: "initial not a child",
			newConfig: func() *StateConfig {
				return NewStateConfig("dashboard", "/dashboard").WithInitial("missing")
			},
			wantErr:     true,
			errContains: "initial child",
		},
		{
			name: "transition without target",
			newConfig: func() *StateConfig {
				return NewStateConfig("index", "/").AddTransition("go", TransitionConfig{})
			},
			wantErr:     true,
			errContains: "target or handler is required",
		},
		{
			name: "duplicate children",
			newConfig: func() *StateConfig {
				return NewStateConfig("root", "").WithChildren(
					NewStateConfig("index", "/"),
					NewStateConfig("index", "/other"),
				)
			},
			wantErr:     true,
			errContains: "duplicate child",
		},
		{
			name: "invalid nested child",
			newConfig: func() *StateConfig {
				root := NewStateConfig("root", "")
				root.State("dashboard", "/dashboard").State("", "/")
				return root
			},
			wantErr:     true,
			errContains: "failed validation",
		},
		{
			name: "valid nested tree",
			newConfig: func() *StateConfig {
				root := NewStateConfig("root", "")
				dash := root.State("dashboard", "/dashboard").WithInitial("index")
				dash.State("index", "/").Transition("showComponent", "component")
				dash.State("component", "/:component_id").Transition("showIndex", "index")
				return root
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.newConfig().Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestStateConfigWalk(t *testing.T) {
	root := NewStateConfig("root", "")
	dash := root.State("dashboard", "/dashboard")
	dash.State("index", "/")
	root.State("login", "/login")

	var paths []string
	err := root.Walk("", func(path string, s *StateConfig) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	want := "root,root.dashboard,root.dashboard.index,root.login"
	if got := strings.Join(paths, ","); got != want {
		t.Errorf("Walk order = %s, want %s", got, want)
	}
}

func TestStateConfigRoutable(t *testing.T) {
	if NewStateConfig("modal", "").Routable() {
		t.Error("state without route should not be routable")
	}
	if !NewStateConfig("index", "/").Routable() {
		t.Error("index route should be routable")
	}
}
