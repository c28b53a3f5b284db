// Package staterouter maps URLs onto a hierarchical state tree and keeps the
// host URL in sync as the application moves between states.
//
// A router is configured with a tree of states. Each state may declare a
// route pattern ("/dashboard", "/:component_id"), an event table, enter and
// exit hooks, and an optional redirect. Routing a URL finds the deepest
// matching leaf; sending an event looks it up from the current leaf outward
// and transitions to the target it names, serializing any supplied contexts
// into the new URL.
//
//	b := staterouter.NewBuilder("root")
//	b.State("index").Route("/").On("showDashboard", "dashboard")
//	b.State("dashboard").Route("/dashboard")
//	b.State("dashboard.index").Route("/").On("showComponent", "component")
//	b.State("dashboard.component").Route("/:component_id")
//
//	r, err := b.Build(staterouter.WithLocation(loc))
//	if err != nil { ... }
//	_ = r.Route(ctx, "/dashboard")
//	_ = r.Send(ctx, "showComponent", map[string]any{"id": 1})
//	// loc now holds "/dashboard/1"
//
// Routers are not safe for concurrent use. Calls made from hooks while a
// transition is running are queued and run after it commits.
package staterouter
