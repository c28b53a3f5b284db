package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/staterouter/internal/core"
)

func BenchmarkRouteFlat(b *testing.B) {
	for _, n := range []int{10, 100} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			r, err := core.New(GenFlatConfig(n))
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()
			paths := []string{"/s0", fmt.Sprintf("/s%d", n-1)}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := r.Route(ctx, paths[i%2]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRouteDeep(b *testing.B) {
	for _, depth := range []int{3, 10} {
		b.Run(fmt.Sprintf("depth=%d", depth), func(b *testing.B) {
			r, err := core.New(GenDeepConfig(depth))
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()
			paths := []string{DeepPath(depth), DeepPath(depth) + "/other"}
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := r.Route(ctx, paths[i%2]); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkResolveBacktrack(b *testing.B) {
	const n = 50
	r, err := core.New(GenBacktrackConfig(n))
	if err != nil {
		b.Fatal(err)
	}
	path := fmt.Sprintf("/%d/x%d", n-1, n-1)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, _, err := r.Resolve(path); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSendDeep(b *testing.B) {
	const depth = 10
	r, err := core.New(GenDeepConfig(depth))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	if err := r.Route(ctx, DeepPath(depth)); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := r.Send(ctx, "tick"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkURLForEvent(b *testing.B) {
	r, err := core.New(GenFlatConfig(20))
	if err != nil {
		b.Fatal(err)
	}
	if err := r.Route(context.Background(), "/s0"); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := r.URLForEvent("next"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshotYAML(b *testing.B) {
	data := GenSnapshotYAML(10)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var snap core.Snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			b.Fatal(err)
		}
	}
}

func TestGeneratedConfigsResolve(t *testing.T) {
	ctx := context.Background()

	flat, err := core.New(GenFlatConfig(5))
	if err != nil {
		t.Fatal(err)
	}
	if err := flat.Route(ctx, "/s4"); err != nil {
		t.Fatal(err)
	}
	if err := flat.Send(ctx, "next"); err != nil || flat.CurrentPath() != "root.s0" {
		t.Fatalf("next from s4 = %q, %v", flat.CurrentPath(), err)
	}

	deep, err := core.New(GenDeepConfig(3))
	if err != nil {
		t.Fatal(err)
	}
	if err := deep.Route(ctx, DeepPath(3)+"/other"); err != nil {
		t.Fatal(err)
	}
	if got := deep.CurrentPath(); got != "root.c0.c1.c2.leaf2" {
		t.Errorf("deep leaf = %q", got)
	}

	bt, err := core.New(GenBacktrackConfig(4))
	if err != nil {
		t.Fatal(err)
	}
	state, params, err := bt.Resolve("/3/x3")
	if err != nil {
		t.Fatal(err)
	}
	if state != "root.p3.leaf" || params.Snapshot()["p3"] != "3" {
		t.Errorf("backtrack resolved %q %v", state, params.Snapshot())
	}

	var snap core.Snapshot
	if err := yaml.Unmarshal(GenSnapshotYAML(2), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Current != "root.c0.c1.leaf1" || snap.URL != "/c0/0/c1/1" {
		t.Errorf("snapshot = %+v", snap)
	}
}
