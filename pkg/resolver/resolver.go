package resolver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/commits"
	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/requirement"
	"github.com/bindlehq/bindle/pkg/version"
)

// CommitFetcher answers one batched latest-commit query per resolution run.
type CommitFetcher interface {
	Fetch(ctx context.Context, workbooks []string, primaryBranch, fallbackBranch string) (map[string]commits.CommitPair, error)
}

// Resolution is the final output of a run: one pinned version per internal
// package, plus the external requirements, both sorted by rendering.
type Resolution struct {
	Internal []requirement.Requirement `json:"internal"`
	External []requirement.Requirement `json:"external"`
}

// Options configures a Resolver.
type Options struct {
	// InternalPrefix is the package-name prefix of internally published
	// packages. Defaults to requirement.DefaultInternalPrefix.
	InternalPrefix string

	// Workers bounds parallel artifact inspection. Values below 2 keep
	// inspection sequential.
	Workers int

	Log     *logrus.Logger
	Metrics *observability.Metrics
}

// Resolver turns a set of workbooks into an installable requirement set.
type Resolver struct {
	fetcher   CommitFetcher
	inspector Inspector
	prefix    string
	workers   int
	log       *logrus.Logger
	metrics   *observability.Metrics
}

// New creates a resolver over a commit fetcher and an artifact inspector.
func New(fetcher CommitFetcher, inspector Inspector, opts Options) *Resolver {
	if opts.InternalPrefix == "" {
		opts.InternalPrefix = requirement.DefaultInternalPrefix
	}
	if opts.Log == nil {
		opts.Log = logrus.New()
	}

	return &Resolver{
		fetcher:   fetcher,
		inspector: inspector,
		prefix:    opts.InternalPrefix,
		workers:   opts.Workers,
		log:       opts.Log,
		metrics:   opts.Metrics,
	}
}

// Resolve runs the full pipeline: fetch the latest commit pairs, encode the
// seed requirements, collect the transitive requirement set, classify it,
// and resolve internal version conflicts. Any failure aborts the run; there
// is no partial result.
func (r *Resolver) Resolve(ctx context.Context, workbooks []string, primaryBranch, fallbackBranch string) (*Resolution, error) {
	start := time.Now()
	resolution, err := r.resolve(ctx, workbooks, primaryBranch, fallbackBranch)
	if err != nil {
		r.metrics.ObserveResolution("error", time.Since(start))
		return nil, err
	}
	r.metrics.ObserveResolution("ok", time.Since(start))
	return resolution, nil
}

func (r *Resolver) resolve(ctx context.Context, workbooks []string, primaryBranch, fallbackBranch string) (*Resolution, error) {
	r.log.WithFields(logrus.Fields{
		"workbooks":       workbooks,
		"primary_branch":  primaryBranch,
		"fallback_branch": fallbackBranch,
	}).Info("Analyzing commit trees")

	queryStart := time.Now()
	pairs, err := r.fetcher.Fetch(ctx, workbooks, primaryBranch, fallbackBranch)
	if err != nil {
		return nil, err
	}
	r.metrics.ObserveRemoteQuery(time.Since(queryStart))

	seeds := make([]requirement.Requirement, 0, len(pairs))
	for _, pair := range pairs {
		seed, err := version.EncodeWithFallback(pair.Workbook, primaryBranch, pair.Primary, fallbackBranch, pair.Fallback)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	r.log.WithField("seeds", requirement.Renderings(requirement.SortedUnique(seeds))).Debug("Encoded workbook requirements")

	r.log.Info("Inspecting artifact requirements")
	c := &collector{inspector: r.inspector, prefix: r.prefix, workers: r.workers}
	collected, err := c.collect(ctx, seeds)
	if err != nil {
		return nil, err
	}

	r.log.Info("Classifying requirements")
	internal, external := requirement.Classify(collected, r.prefix)
	r.log.WithFields(logrus.Fields{
		"internal": requirement.Renderings(internal),
		"external": requirement.Renderings(external),
	}).Debug("Classified requirements")

	r.log.Info("Resolving workbook requirement conflicts")
	resolved := resolveConflicts(internal, primaryBranch, r.log, r.metrics)

	return &Resolution{Internal: resolved, External: external}, nil
}
