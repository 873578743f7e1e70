package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

var errMissing = errors.New("not found")

// fakeRegistry serves packages from a map of name -> dependencies.
type fakeRegistry struct {
	deps    map[string][]Dependency
	repos   map[string]string
	failPkg map[string]bool
	failDep map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

func newFake(deps map[string][]Dependency) *fakeRegistry {
	return &fakeRegistry{
		deps:    deps,
		repos:   map[string]string{},
		failPkg: map[string]bool{},
		failDep: map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeRegistry) Package(ctx context.Context, name string) (*Package, error) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
	if _, ok := f.deps[name]; !ok || f.failPkg[name] {
		return nil, fmt.Errorf("%w: %s", errMissing, name)
	}
	return &Package{Name: name, Version: "1.0.0", Repository: f.repos[name]}, nil
}

func (f *fakeRegistry) Dependencies(ctx context.Context, name, version string) ([]Dependency, error) {
	if f.failDep[name] {
		return nil, fmt.Errorf("%w: deps of %s", errMissing, name)
	}
	return f.deps[name], nil
}

func normal(names ...string) []Dependency {
	out := make([]Dependency, len(names))
	for i, n := range names {
		out[i] = Dependency{Name: n, Kind: "normal"}
	}
	return out
}

func depths(g *Graph) map[string]int {
	out := make(map[string]int, g.Len())
	for _, n := range g.Nodes() {
		out[n.Name] = n.Depth
	}
	return out
}

func assertDepths(t *testing.T, g *Graph, want map[string]int) {
	t.Helper()
	got := depths(g)
	if len(got) != len(want) {
		t.Fatalf("nodes = %v, want %v", got, want)
	}
	for name, d := range want {
		if gd, ok := got[name]; !ok || gd != d {
			t.Errorf("depth[%s] = %d (present %v), want %d", name, gd, ok, d)
		}
	}
}

func TestCrawlScenarioDevExcluded(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"alpha": {{Name: "beta", Kind: "normal"}, {Name: "gamma", Kind: "dev"}},
		"beta":  nil,
		"gamma": nil,
	})

	g, err := Crawl(context.Background(), reg, "alpha", Options{MaxDepth: 1})
	if err != nil {
		t.Fatal(err)
	}
	assertDepths(t, g, map[string]int{"alpha": 0, "beta": 1})
}

func TestCrawlIncludeDev(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"alpha": {{Name: "beta", Kind: "normal"}, {Name: "gamma", Kind: "dev"}},
		"beta":  nil,
		"gamma": nil,
	})

	g, err := Crawl(context.Background(), reg, "alpha", Options{MaxDepth: 1, IncludeDev: true})
	if err != nil {
		t.Fatal(err)
	}
	assertDepths(t, g, map[string]int{"alpha": 0, "beta": 1, "gamma": 1})
}

func TestCrawlCycleTerminates(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"a": normal("b"),
		"b": normal("a"),
	})

	g, err := Crawl(context.Background(), reg, "a", Options{MaxDepth: -1})
	if err != nil {
		t.Fatal(err)
	}
	assertDepths(t, g, map[string]int{"a": 0, "b": 1})
	for name, n := range reg.calls {
		if n != 1 {
			t.Errorf("%s fetched %d times, want 1", name, n)
		}
	}
}

func TestCrawlMaxDepthBound(t *testing.T) {
	// chain p0 -> p1 -> ... -> p9
	deps := map[string][]Dependency{}
	for i := range 10 {
		name := fmt.Sprintf("p%d", i)
		if i < 9 {
			deps[name] = normal(fmt.Sprintf("p%d", i+1))
		} else {
			deps[name] = nil
		}
	}

	for _, limit := range []int{0, 1, 3, 9, 20} {
		t.Run(fmt.Sprint(limit), func(t *testing.T) {
			g, err := Crawl(context.Background(), newFake(deps), "p0", Options{MaxDepth: limit})
			if err != nil {
				t.Fatal(err)
			}
			want := min(limit, 9) + 1
			if g.Len() != want {
				t.Errorf("Len() = %d, want %d", g.Len(), want)
			}
			for _, n := range g.Nodes() {
				if n.Depth > limit {
					t.Errorf("%s at depth %d exceeds max %d", n.Name, n.Depth, limit)
				}
			}
		})
	}
}

func TestCrawlShortestDepthWins(t *testing.T) {
	// root -> a -> b -> shared, root -> shared
	reg := newFake(map[string][]Dependency{
		"root":   normal("a", "shared"),
		"a":      normal("b"),
		"b":      normal("shared"),
		"shared": nil,
	})

	g, err := Crawl(context.Background(), reg, "root", Options{MaxDepth: -1, Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	assertDepths(t, g, map[string]int{"root": 0, "a": 1, "shared": 1, "b": 2})
}

func TestCrawlDiscoveryOrderDeterministic(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"root": normal("c", "a", "b"),
		"a":    normal("d"),
		"b":    nil,
		"c":    normal("e"),
		"d":    nil,
		"e":    nil,
	})

	for range 20 {
		g, err := Crawl(context.Background(), reg, "root", Options{MaxDepth: -1, Workers: 3})
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for i, n := range g.Nodes() {
			if n.Seq != i {
				t.Errorf("%s Seq = %d, want %d", n.Name, n.Seq, i)
			}
			names = append(names, n.Name)
		}
		if got := fmt.Sprint(names); got != "[root c a b e d]" {
			t.Fatalf("discovery order = %s", got)
		}
	}
}

func TestCrawlFetchFailureSkipped(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"root":   normal("broken", "ok", "nodeps"),
		"broken": normal("hidden"),
		"ok":     nil,
		"nodeps": normal("alsohidden"),
		"hidden": nil,
	})
	reg.failPkg["broken"] = true
	reg.failDep["nodeps"] = true

	var logged []string
	opts := Options{MaxDepth: -1, Logger: func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}}

	g, err := Crawl(context.Background(), reg, "root", opts)
	if err != nil {
		t.Fatal(err)
	}
	assertDepths(t, g, map[string]int{"root": 0, "ok": 1})
	if got := fmt.Sprint(g.Failed()); got != "[broken nodeps]" {
		t.Errorf("Failed() = %s", got)
	}
	if len(logged) != 2 {
		t.Errorf("logged %d failures, want 2: %v", len(logged), logged)
	}
}

func TestCrawlFailedNameNotRetried(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"root": normal("a", "b"),
		"a":    normal("flaky"),
		"b":    normal("flaky"),
	})
	reg.deps["flaky"] = nil
	reg.failPkg["flaky"] = true

	g, err := Crawl(context.Background(), reg, "root", Options{MaxDepth: -1})
	if err != nil {
		t.Fatal(err)
	}
	if reg.calls["flaky"] != 1 {
		t.Errorf("flaky fetched %d times, want 1", reg.calls["flaky"])
	}
	if _, ok := g.Node("flaky"); ok {
		t.Error("failed package should not be in the graph")
	}
}

func TestCrawlRootFailure(t *testing.T) {
	g, err := Crawl(context.Background(), newFake(nil), "ghost", Options{})
	if err != nil {
		t.Fatalf("root failure should not be an error: %v", err)
	}
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
	if g.Root() != "ghost" {
		t.Errorf("Root() = %q", g.Root())
	}
}

func TestCrawlCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Crawl(ctx, newFake(map[string][]Dependency{"a": nil}), "a", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestCrawlNoDuplicateKeysLargeGraph(t *testing.T) {
	// dense graph where every node depends on every later node
	const n = 30
	deps := map[string][]Dependency{}
	for i := range n {
		var names []string
		for j := i + 1; j < n; j++ {
			names = append(names, fmt.Sprintf("n%02d", j))
		}
		names = append(names, "n00") // back edge
		deps[fmt.Sprintf("n%02d", i)] = normal(names...)
	}

	reg := newFake(deps)
	g, err := Crawl(context.Background(), reg, "n00", Options{MaxDepth: -1, Workers: 16})
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != n {
		t.Errorf("Len() = %d, want %d", g.Len(), n)
	}
	seen := map[string]bool{}
	for _, node := range g.Nodes() {
		if seen[node.Name] {
			t.Errorf("duplicate node %s", node.Name)
		}
		seen[node.Name] = true
		if reg.calls[node.Name] != 1 {
			t.Errorf("%s fetched %d times", node.Name, reg.calls[node.Name])
		}
	}
}

func TestGraphEdgesAndFunding(t *testing.T) {
	reg := newFake(map[string][]Dependency{
		"root": normal("a", "missing"),
		"a":    normal("root"),
	})

	g, err := Crawl(context.Background(), reg, "root", Options{MaxDepth: -1})
	if err != nil {
		t.Fatal(err)
	}
	if got := fmt.Sprint(g.Edges()); got != "[{root a} {a root}]" {
		t.Errorf("Edges() = %s", got)
	}

	if !g.SetFundingLinks("a", []string{"https://github.com/sponsors/a"}) {
		t.Error("SetFundingLinks on a crawled node should succeed")
	}
	if g.SetFundingLinks("missing", nil) {
		t.Error("SetFundingLinks on an unknown node should fail")
	}
	if n, _ := g.Node("a"); len(n.FundingLinks) != 1 {
		t.Errorf("FundingLinks = %v", n.FundingLinks)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	tests := []struct {
		in        Options
		wantDepth int
		wantWork  int
	}{
		{Options{}, 0, DefaultWorkers},
		{Options{MaxDepth: -1}, DefaultMaxDepth, DefaultWorkers},
		{Options{MaxDepth: 5, Workers: 2}, 5, 2},
	}
	for _, tt := range tests {
		got := tt.in.WithDefaults()
		if got.MaxDepth != tt.wantDepth || got.Workers != tt.wantWork {
			t.Errorf("WithDefaults(%+v) = depth %d workers %d", tt.in, got.MaxDepth, got.Workers)
		}
		if got.Logger == nil {
			t.Error("Logger should default to a no-op")
		}
	}
}
