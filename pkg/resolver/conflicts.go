package resolver

import (
	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/requirement"
	"github.com/bindlehq/bindle/pkg/version"
)

// resolveConflicts picks one version per internal package name.
//
// Per name: a single candidate wins outright. Otherwise a candidate whose
// embedded branch matches the normalized primary branch wins (a dependency
// built from the consumer's own feature branch is assumed to be the intended
// one). Failing that, the lexicographically first candidate wins and the
// degradation is logged. An ambiguous conflict must be observable but must
// not block installation.
//
// Candidates are sorted by rendering before any pick, so resolution is
// deterministic; with several homonymous candidates the first of those is
// taken.
func resolveConflicts(internal []requirement.Requirement, primaryBranch string, log *logrus.Logger, metrics *observability.Metrics) []requirement.Requirement {
	grouped := requirement.GroupByName(requirement.SortedUnique(internal))

	resolved := make([]requirement.Requirement, 0, len(grouped))
	for _, candidates := range grouped {
		resolved = append(resolved, resolveVersion(candidates, primaryBranch, log, metrics))
	}
	return requirement.SortedUnique(resolved)
}

func resolveVersion(candidates []requirement.Requirement, primaryBranch string, log *logrus.Logger, metrics *observability.Metrics) requirement.Requirement {
	if len(candidates) == 1 {
		return candidates[0]
	}

	primary := version.NormalizeBranch(primaryBranch)
	for _, candidate := range candidates {
		branch, _, err := version.Decode(candidate)
		if err != nil {
			// Undecodable version, cannot match a branch.
			continue
		}
		if branch == primary {
			metrics.ObserveConflict(false)
			log.WithFields(logrus.Fields{
				"requirement": candidate.String(),
				"branch":      primary,
			}).Debug("Conflict resolved by homonymous branch")
			return candidate
		}
	}

	metrics.ObserveConflict(true)
	log.WithFields(logrus.Fields{
		"candidates":  requirement.Renderings(candidates),
		"requirement": candidates[0].String(),
	}).Warn("No homonymous branch among conflicting versions, resorting to the first candidate")
	return candidates[0]
}
