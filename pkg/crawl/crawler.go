package crawl

import (
	"context"
	"sync"
)

// crawler holds the state of one Crawl call. The frontier and the
// membership set are only touched by the collecting goroutine.
type crawler struct {
	reg   Registry
	opts  Options
	graph *Graph
	seen  map[string]bool
}

type job struct {
	name  string
	depth int
}

type result struct {
	idx  int
	pkg  *Package
	deps []Dependency
	err  error
}

func (c *crawler) run(ctx context.Context, root string) error {
	c.seen[root] = true
	level := []job{{name: root}}

	for len(level) > 0 {
		results := c.fetchLevel(ctx, level)
		if err := ctx.Err(); err != nil {
			return err
		}

		var next []job
		for i, r := range results {
			j := level[i]
			if r.err != nil {
				c.opts.Logger("fetch failed: %s: %v", j.name, r.err)
				c.graph.failed = append(c.graph.failed, j.name)
				continue
			}

			children := c.children(r.deps)
			c.graph.add(&Node{
				Name:       j.name,
				Version:    r.pkg.Version,
				Repository: r.pkg.Repository,
				Depth:      j.depth,
				Deps:       children,
			})

			if j.depth >= c.opts.MaxDepth {
				continue
			}
			for _, child := range children {
				if c.seen[child] {
					continue
				}
				c.seen[child] = true
				next = append(next, job{name: child, depth: j.depth + 1})
			}
		}
		level = next
	}
	return nil
}

// fetchLevel fetches every job of one level with a bounded worker pool and
// returns the results in frontier order.
func (c *crawler) fetchLevel(ctx context.Context, level []job) []result {
	jobs := make(chan int)
	results := make(chan result, len(level))

	var wg sync.WaitGroup
	for range min(c.opts.Workers, len(level)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- c.fetch(ctx, i, level[i])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range level {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]result, len(level))
	for i := range ordered {
		ordered[i] = result{idx: i, err: context.Canceled}
	}
	for r := range results {
		ordered[r.idx] = r
	}
	return ordered
}

func (c *crawler) fetch(ctx context.Context, idx int, j job) result {
	if err := ctx.Err(); err != nil {
		return result{idx: idx, err: err}
	}
	pkg, err := c.reg.Package(ctx, j.name)
	if err != nil {
		return result{idx: idx, err: err}
	}
	deps, err := c.reg.Dependencies(ctx, j.name, pkg.Version)
	if err != nil {
		return result{idx: idx, err: err}
	}
	return result{idx: idx, pkg: pkg, deps: deps}
}

// children returns the dependency names to follow, in declaration order,
// without duplicates (a crate may list the same dependency under several
// kinds).
func (c *crawler) children(deps []Dependency) []string {
	out := make([]string, 0, len(deps))
	seen := make(map[string]bool, len(deps))
	for _, d := range deps {
		if d.Kind == KindDev && !c.opts.IncludeDev {
			continue
		}
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d.Name)
	}
	return out
}
