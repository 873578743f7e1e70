package funding

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/fundamental/pkg/crawl"
	"github.com/matzehuels/fundamental/pkg/errors"
	"github.com/matzehuels/fundamental/pkg/integrations/github"
)

const (
	DefaultWorkers        = 8    // Default concurrent repository resolutions
	DefaultSponsorWorkers = 4    // Default concurrent sponsorship lookups per repository
	DefaultMemoSize       = 4096 // Default number of memoized sponsorship lookups
)

// Host is the code-hosting platform funding data comes from.
type Host interface {
	Repository(ctx context.Context, owner, repo string) (*github.Repository, error)
	FundingLinks(ctx context.Context, owner, repo string) ([]string, error)
	Contributors(ctx context.Context, contributorsURL string) ([]github.Contributor, error)
	Sponsorship(ctx context.Context, login string) (*github.Sponsorship, error)
}

// Options configures a Resolver.
type Options struct {
	Workers        int                  // Concurrent repository resolutions (default: 8)
	SponsorWorkers int                  // Concurrent sponsorship lookups per repository (default: 4)
	MemoSize       int                  // Memoized sponsorship lookups (default: 4096)
	Logger         func(string, ...any) // Failure callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.SponsorWorkers <= 0 {
		opts.SponsorWorkers = DefaultSponsorWorkers
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = DefaultMemoSize
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Skip records a package whose funding data could not be resolved.
type Skip struct {
	Package string      `json:"package"`
	Code    errors.Code `json:"code"` // ErrCodeFetch or ErrCodeDataShape
	Reason  string      `json:"reason"`
}

// Summary describes the outcome of one Resolve call.
type Summary struct {
	Hosted   int    // Packages whose repository is on GitHub
	Resolved int    // Hosted packages resolved successfully
	Skipped  []Skip // Hosted packages that were dropped, in discovery order
}

// Resolver maps crawled packages to funding links and sponsorable
// contributors. A Resolver memoizes lookups for its lifetime; create one
// per run.
type Resolver struct {
	host  Host
	opts  Options
	memo  *lru.Cache[string, github.Sponsorship]
	group singleflight.Group

	mu    sync.Mutex
	repos map[string]repoOutcome
}

// repoFunding is everything learned about one repository.
type repoFunding struct {
	Links   []string
	Records []Contributor
}

type repoOutcome struct {
	funding *repoFunding
	err     error
}

// NewResolver creates a Resolver that reads from host.
func NewResolver(host Host, opts Options) *Resolver {
	opts = opts.WithDefaults()
	memo, _ := lru.New[string, github.Sponsorship](opts.MemoSize)
	return &Resolver{
		host:  host,
		opts:  opts,
		memo:  memo,
		repos: make(map[string]repoOutcome),
	}
}

// Resolve looks up every GitHub-hosted node of g. Funding links are written
// back to the nodes and sponsorable contributors are merged into board, both
// in discovery order. Packages whose lookups fail are logged and reported
// in the summary; they never abort the run. The only error returned is
// ctx.Err().
func (r *Resolver) Resolve(ctx context.Context, g *crawl.Graph, board *Leaderboard) (*Summary, error) {
	nodes := g.Nodes()
	outcomes := make([]*repoOutcome, len(nodes))
	sum := &Summary{}

	var eg errgroup.Group
	eg.SetLimit(r.opts.Workers)
	for i, n := range nodes {
		loc := Locate(n.Repository)
		if !loc.Hosted {
			continue
		}
		sum.Hosted++
		if !loc.Valid() {
			err := errors.New(errors.ErrCodeDataShape, "repository url %q has no usable owner/name", n.Repository)
			outcomes[i] = &repoOutcome{err: err}
			continue
		}
		eg.Go(func() error {
			out := r.resolveRepo(ctx, loc.Owner, loc.Name)
			outcomes[i] = &out
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	for i, n := range nodes {
		out := outcomes[i]
		if out == nil {
			continue
		}
		if out.err != nil {
			code := errors.ErrCodeFetch
			if errors.Is(out.err, errors.ErrCodeDataShape) {
				code = errors.ErrCodeDataShape
				r.opts.Logger("unusable repository: %s: %s", n.Name, errors.UserMessage(out.err))
			} else {
				r.opts.Logger("fetch failed: %s: %v", n.Name, out.err)
			}
			sum.Skipped = append(sum.Skipped, Skip{Package: n.Name, Code: code, Reason: errors.UserMessage(out.err)})
			continue
		}

		g.SetFundingLinks(n.Name, out.funding.Links)
		for _, rec := range out.funding.Records {
			board.Add(rec)
		}
		sum.Resolved++
	}
	return sum, nil
}

// resolveRepo returns the memoized outcome for owner/name, fetching it once
// even when several packages share the repository.
func (r *Resolver) resolveRepo(ctx context.Context, owner, name string) repoOutcome {
	key := owner + "/" + name

	r.mu.Lock()
	out, ok := r.repos[key]
	r.mu.Unlock()
	if ok {
		return out
	}

	v, _, _ := r.group.Do("repo:"+key, func() (any, error) {
		r.mu.Lock()
		out, ok := r.repos[key]
		r.mu.Unlock()
		if ok {
			return out, nil
		}

		f, err := r.fetchRepo(ctx, owner, name)
		out = repoOutcome{funding: f, err: err}
		if ctx.Err() == nil {
			r.mu.Lock()
			r.repos[key] = out
			r.mu.Unlock()
		}
		return out, nil
	})
	return v.(repoOutcome)
}

func (r *Resolver) fetchRepo(ctx context.Context, owner, name string) (*repoFunding, error) {
	repo, err := r.host.Repository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	links, err := r.host.FundingLinks(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	people, err := r.host.Contributors(ctx, repo.ContributorsURL)
	if err != nil {
		return nil, fmt.Errorf("contributors of %s/%s: %w", owner, name, err)
	}

	var users []github.Contributor
	for _, p := range people {
		if p.IsUser() {
			users = append(users, p)
		}
	}

	// Lookups are shared with other repositories through r.group, so they run
	// under the run context. stop only keeps this repository from starting
	// new lookups after one of its own has failed.
	found := make([]*Contributor, len(users))
	eg, stop := errgroup.WithContext(ctx)
	eg.SetLimit(r.opts.SponsorWorkers)
	for i, u := range users {
		eg.Go(func() error {
			if err := stop.Err(); err != nil {
				return err
			}
			s, err := r.sponsorship(ctx, u.Login)
			if err != nil {
				return err
			}
			if s.Sponsorable() {
				found[i] = &Contributor{
					Login:         u.Login,
					Contributions: u.Contributions,
					Sponsors:      s.Sponsors,
					Crates:        1,
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	f := &repoFunding{Links: links}
	for _, c := range found {
		if c != nil {
			f.Records = append(f.Records, *c)
		}
	}
	return f, nil
}

func (r *Resolver) sponsorship(ctx context.Context, login string) (github.Sponsorship, error) {
	if s, ok := r.memo.Get(login); ok {
		return s, nil
	}
	v, err, _ := r.group.Do("user:"+login, func() (any, error) {
		if s, ok := r.memo.Get(login); ok {
			return s, nil
		}
		s, err := r.host.Sponsorship(ctx, login)
		if err != nil {
			return github.Sponsorship{}, err
		}
		r.memo.Add(login, *s)
		return *s, nil
	})
	if err != nil {
		return github.Sponsorship{}, err
	}
	return v.(github.Sponsorship), nil
}
