package staterouter_test

import (
	"context"
	"fmt"

	"github.com/comalice/staterouter"
	"github.com/comalice/staterouter/internal/extensibility"
)

func Example() {
	loc := extensibility.NewHashLocation("#!#")
	b := staterouter.NewBuilder("root")
	b.State("index").Route("/").On("showDashboard", "dashboard")
	b.State("dashboard").Route("/dashboard")
	b.State("dashboard.index").Route("/").On("showComponent", "component")
	b.State("dashboard.component").Route("/:component_id")

	r, err := b.Build(staterouter.WithLocation(loc))
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	_ = r.Route(ctx, "/dashboard")

	url, _ := r.URLForEvent("showComponent", map[string]any{"id": 7})
	fmt.Println(url)

	_ = r.Send(ctx, "showComponent", map[string]any{"id": 7})
	fmt.Println(r.CurrentPath(), loc.URL())
	// Output:
	// #!#/dashboard/7
	// root.dashboard.component #!#/dashboard/7
}

func ExampleNew() {
	root := staterouter.NewState("root", "")
	root.State("home", "/")
	root.State("post", "/posts/:post_id")

	r, err := staterouter.New(staterouter.Config{Root: root})
	if err != nil {
		panic(err)
	}
	path, params, _ := r.Resolve("/posts/hello%20world")
	fmt.Println(path, params.Snapshot()["post_id"])
	// Output: root.post hello world
}
