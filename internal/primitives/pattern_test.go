package primitives

import (
	"reflect"
	"strings"
	"testing"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		route       string
		wantString  string
		wantParams  []string
		wantErr     bool
		errContains string
	}{
		{route: "/", wantString: "/"},
		{route: "", wantString: "/"},
		{route: "/dashboard", wantString: "/dashboard"},
		{route: "/dashboard/:component_id", wantString: "/dashboard/:component_id", wantParams: []string{"component_id"}},
		{route: "//posts//:post_id/comments/:comment_id/", wantString: "/posts/:post_id/comments/:comment_id", wantParams: []string{"post_id", "comment_id"}},
		{route: "/:id/:id", wantErr: true, errContains: "duplicate"},
		{route: "/:", wantErr: true, errContains: "invalid dynamic segment"},
		{route: "/:bad.name", wantErr: true, errContains: "invalid dynamic segment"},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			p, err := ParsePattern(tt.route)
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
				t.Fatalf("unexpected error: %v", err)
			}
			if got := p.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
			if got := p.Params(); !reflect.DeepEqual(got, tt.wantParams) {
				t.Errorf("Params() = %v, want %v", got, tt.wantParams)
			}
		})
	}
}

func TestPatternMatch(t *testing.T) {
	p := MustParsePattern("/dashboard/:component_id")

	captured, rest, ok := p.Match([]string{"dashboard", "7", "edit"})
	if !ok {
		t.Fatal("expected match")
	}
	if len(captured) != 1 || captured[0].Name != "component_id" || captured[0].Raw != "7" {
		t.Errorf("captured = %+v", captured)
	}
	if !reflect.DeepEqual(rest, []string{"edit"}) {
		t.Errorf("rest = %v", rest)
	}

	if _, _, ok := p.Match([]string{"settings", "7"}); ok {
		t.Error("literal mismatch should not match")
	}
	if _, _, ok := p.Match([]string{"dashboard"}); ok {
		t.Error("short input should not match")
	}
}

func TestEmptyPatternMatchesAnything(t *testing.T) {
	p := MustParsePattern("/")
	if !p.Empty() {
		t.Fatal("expected empty pattern")
	}
	captured, rest, ok := p.Match([]string{"a", "b"})
	if !ok || len(captured) != 0 || len(rest) != 2 {
		t.Errorf("Match = %v %v %v", captured, rest, ok)
	}
}

func TestSplitPath(t *testing.T) {
	if got := SplitPath("/components/1/edit/"); !reflect.DeepEqual(got, []string{"components", "1", "edit"}) {
		t.Errorf("SplitPath = %v", got)
	}
	if got := SplitPath("/"); got != nil {
		t.Errorf("SplitPath(/) = %v, want nil", got)
	}
}
