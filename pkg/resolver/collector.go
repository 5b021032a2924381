package resolver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bindlehq/bindle/pkg/requirement"
)

// Inspector reads the dependency requirements a built artifact declares.
type Inspector interface {
	DeclaredRequirements(req requirement.Requirement) ([]requirement.Requirement, error)
}

// collector expands a seed set of internal requirements into every
// requirement reachable through declared artifact dependencies.
//
// The graph is never materialized: a visited set keyed by requirement
// rendering guarantees each internal requirement is inspected at most once,
// which also terminates collection on cyclic artifact graphs. External
// requirements are collected but never expanded.
type collector struct {
	inspector Inspector
	prefix    string
	workers   int
}

// collect runs the worklist expansion and returns everything discovered,
// sorted by rendering. The seeds themselves are expanded but only appear in
// the result when some artifact declares them.
func (c *collector) collect(ctx context.Context, seeds []requirement.Requirement) ([]requirement.Requirement, error) {
	visited := make(map[string]bool)
	result := make(map[string]requirement.Requirement)

	frontier := c.frontier(seeds, visited)
	for len(frontier) > 0 {
		// Mark before inspecting so nothing is queued twice, even when the
		// frontier is processed concurrently.
		for _, req := range frontier {
			visited[req.String()] = true
		}

		declared, err := c.inspect(ctx, frontier)
		if err != nil {
			return nil, err
		}

		for _, req := range declared {
			result[req.String()] = req
		}
		frontier = c.frontier(declared, visited)
	}

	return requirement.SortedUnique(mapValues(result)), nil
}

// frontier filters the next wave: internal requirements not yet expanded,
// deduplicated by rendering.
func (c *collector) frontier(reqs []requirement.Requirement, visited map[string]bool) []requirement.Requirement {
	next := make([]requirement.Requirement, 0, len(reqs))
	queued := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		key := req.String()
		if visited[key] || queued[key] || !requirement.IsInternal(req, c.prefix) {
			continue
		}
		queued[key] = true
		next = append(next, req)
	}
	return next
}

// inspect reads the declared requirements of one frontier wave. Entries are
// independent and read-only, so with workers > 1 they are inspected in
// parallel; any inspection failure aborts the whole run.
func (c *collector) inspect(ctx context.Context, frontier []requirement.Requirement) ([]requirement.Requirement, error) {
	if c.workers <= 1 || len(frontier) == 1 {
		var declared []requirement.Requirement
		for _, req := range frontier {
			reqs, err := c.inspector.DeclaredRequirements(req)
			if err != nil {
				return nil, err
			}
			declared = append(declared, reqs...)
		}
		return declared, nil
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(c.workers)

	var mu sync.Mutex
	var declared []requirement.Requirement

	for _, req := range frontier {
		req := req
		eg.Go(func() error {
			reqs, err := c.inspector.DeclaredRequirements(req)
			if err != nil {
				return err
			}
			mu.Lock()
			declared = append(declared, reqs...)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return declared, nil
}

func mapValues(m map[string]requirement.Requirement) []requirement.Requirement {
	out := make([]requirement.Requirement, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
