package primitives

import "testing"

func TestContextBasic(t *testing.T) {
	var ctx Context
	if _, ok := ctx.Get("nonexistent"); ok {
		t.Error("Get nonexistent should return false")
	}

	ctx = ctx.With(
		Param{State: "root.components.show", Name: "component_id", Value: "1", Raw: "1"},
		Param{State: "root.components.show.file", Name: "file_id", Value: "a", Raw: "a"},
	)

	v, ok := ctx.Get("component_id")
	if !ok || v != "1" {
		t.Errorf("Get component_id = %v, %v", v, ok)
	}

	p, ok := ctx.Lookup("root.components.show.file", "file_id")
	if !ok || p.Raw != "a" {
		t.Errorf("Lookup file_id = %+v, %v", p, ok)
	}
	if _, ok := ctx.Lookup("root.components", "file_id"); ok {
		t.Error("Lookup on wrong state should fail")
	}

	owned := ctx.Owned("root.components.show")
	if len(owned) != 1 || owned[0].Name != "component_id" {
		t.Errorf("Owned = %+v", owned)
	}
}

func TestContextWithDoesNotAlias(t *testing.T) {
	base := make(Context, 1, 4)
	base[0] = Param{State: "root.a", Name: "a_id", Raw: "1"}

	left := base.With(Param{State: "root.a.b", Name: "b_id", Raw: "2"})
	right := base.With(Param{State: "root.a.c", Name: "c_id", Raw: "3"})

	if left[1].Name != "b_id" {
		t.Errorf("left was overwritten: %+v", left)
	}
	if right[1].Name != "c_id" {
		t.Errorf("right = %+v", right)
	}
}

func TestContextSnapshot(t *testing.T) {
	ctx := Context{
		{State: "root.a", Name: "id", Raw: "1"},
		{State: "root.a.b", Name: "id", Raw: "2"},
	}
	snap := ctx.Snapshot()
	if snap["id"] != "2" {
		t.Errorf("inner param should shadow outer, got %q", snap["id"])
	}
	if vals := ctx.Values(); len(vals) != 2 {
		t.Errorf("Values len = %d", len(vals))
	}
}
