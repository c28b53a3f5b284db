package staterouter_test

import (
	"context"
	"errors"
	"testing"

	"github.com/comalice/staterouter"
	"github.com/comalice/staterouter/internal/extensibility"
)

func dashboardBuilder() *staterouter.Builder {
	b := staterouter.NewBuilder("root").ID("app")
	b.State("index").Route("/").On("showDashboard", "dashboard")
	b.State("dashboard").Route("/dashboard")
	b.State("dashboard.index").Route("/").On("showComponent", "component")
	b.State("dashboard.component").Route("/:component_id").On("showIndex", "index")
	return b
}

func TestBuilderDashboard(t *testing.T) {
	loc := extensibility.NewMemoryLocation()
	r, err := dashboardBuilder().Build(staterouter.WithLocation(loc))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if got := r.CurrentPath(); got != "root.index" {
		t.Fatalf("start state = %q, want root.index", got)
	}

	if err := r.Send(ctx, "showDashboard"); err != nil {
		t.Fatal(err)
	}
	if got := r.CurrentPath(); got != "root.dashboard.index" {
		t.Errorf("state = %q, want root.dashboard.index", got)
	}

	if err := r.Send(ctx, "showComponent", map[string]any{"id": 1}); err != nil {
		t.Fatal(err)
	}
	if got := loc.Last(); got != "/dashboard/1" {
		t.Errorf("url = %q, want /dashboard/1", got)
	}

	if err := r.Send(ctx, "showIndex"); err != nil {
		t.Fatal(err)
	}
	if got := loc.Last(); got != "/dashboard" {
		t.Errorf("url = %q, want /dashboard", got)
	}
}

func TestBuilderImplicitParents(t *testing.T) {
	b := staterouter.NewBuilder("")
	b.State("admin.users.list").Route("/")
	b.State("admin").Route("/admin")
	b.State("admin.users").Route("/users")

	r, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Route(context.Background(), "/admin/users"); err != nil {
		t.Fatal(err)
	}
	if got, want := r.CurrentPath(), b.Path("admin.users.list"); got != want {
		t.Errorf("state = %q, want %q", got, want)
	}
	if b.Path("") != "root" {
		t.Errorf("root path = %q, want root", b.Path(""))
	}
}

func TestBuilderChildChaining(t *testing.T) {
	b := staterouter.NewBuilder("app")
	posts := b.State("posts").Route("/posts").Initial("list")
	posts.State("list").Route("/")
	posts.State("show").Route("/:post_id")

	cfg, err := b.Config()
	if err != nil {
		t.Fatal(err)
	}
	posts2, ok := cfg.Root.Child("posts")
	if !ok {
		t.Fatal("posts not declared")
	}
	if len(posts2.Children) != 2 || posts2.Children[1].Name != "show" {
		t.Errorf("children = %+v, want [list show]", posts2.Children)
	}
	if posts.Config() != posts2 {
		t.Error("Config() should expose the same node")
	}
}

func TestBuilderHooksAndHandlers(t *testing.T) {
	var trace []string
	hook := func(label string) staterouter.HookFunc {
		return func(ctx context.Context, hc staterouter.HookContext) error {
			trace = append(trace, label+":"+hc.State)
			return nil
		}
	}

	b := staterouter.NewBuilder("root")
	b.Root().Handle("home", func(ctx context.Context, t staterouter.Transitioner, contexts []any) error {
		t.TransitionTo("root.index")
		return nil
	})
	b.State("index").Route("/").Entry(hook("enter")).Exit(hook("exit"))
	b.State("about").Route("/about").Entry(hook("enter")).Exit(hook("exit"))

	r, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := r.Route(ctx, "/about"); err != nil {
		t.Fatal(err)
	}
	if err := r.Send(ctx, "home"); err != nil {
		t.Fatal(err)
	}

	want := []string{"enter:root.about", "exit:root.about", "enter:root.index"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

func TestBuilderRedirect(t *testing.T) {
	b := staterouter.NewBuilder("root")
	b.State("old").Route("/old").RedirectsTo("new")
	b.State("new").Route("/new")

	loc := extensibility.NewMemoryLocation()
	r, err := b.Build(staterouter.WithLocation(loc))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Route(context.Background(), "/old"); err != nil {
		t.Fatal(err)
	}
	if r.CurrentPath() != "root.new" || loc.Last() != "/new" {
		t.Errorf("state %q url %q, want root.new /new", r.CurrentPath(), loc.Last())
	}
}

func TestBuilderInvalid(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *staterouter.Builder)
	}{
		{"bad path", func(b *staterouter.Builder) { b.State("a..b") }},
		{"unknown target", func(b *staterouter.Builder) { b.State("a").Route("/a").On("go", "missing") }},
		{"redirect cycle", func(b *staterouter.Builder) {
			b.State("a").Route("/a").RedirectsTo("b")
			b.State("b").Route("/b").RedirectsTo("a")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := staterouter.NewBuilder("root")
			tt.build(b)
			if _, err := b.Build(); !errors.Is(err, staterouter.ErrInvalidConfig) {
				t.Errorf("Build() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
