// Package version encodes (workbook, branch, commit) triples into package
// name/version pairs and decodes them back.
//
// An internal package built from branch "feature/deps" at commit abc1234 is
// published as "index-<repo>==0.0.0+feature.deps.abc1234". The branch is
// normalized by replacing "/" and "-" with "."; decoding recovers the dotted
// form only, which is all conflict resolution needs.
package version

import (
	"strings"

	"github.com/bindlehq/bindle/pkg/requirement"
)

// ShortHashLen is the length of an abbreviated commit hash.
const ShortHashLen = 7

// NormalizeBranch replaces "/" and "-" with "." so a branch name can live
// inside a version's local segment.
func NormalizeBranch(branch string) string {
	return strings.ReplaceAll(strings.ReplaceAll(branch, "/", "."), "-", ".")
}

// Encode derives the internal package requirement for a workbook built from
// the given branch and commit. The package name is the index prefix plus the
// lowercased repo segment of the "org/repo" workbook identifier.
func Encode(workbook, branch, commit string) (requirement.Requirement, error) {
	if !isShortHash(commit) {
		return requirement.Requirement{}, NewInvalidCommitError(commit)
	}

	repo := workbook
	if idx := strings.LastIndex(workbook, "/"); idx != -1 {
		repo = workbook[idx+1:]
	}

	name := strings.ToLower(requirement.DefaultInternalPrefix + "-" + repo)
	ver := "0.0.0+" + NormalizeBranch(branch) + "." + commit
	return requirement.New(name, ver), nil
}

// EncodeWithFallback encodes using the primary (branch, commit) pair when the
// primary commit is present, otherwise the fallback pair. Both commits absent
// means the workbook is unresolvable.
func EncodeWithFallback(workbook, primaryBranch, primaryCommit, fallbackBranch, fallbackCommit string) (requirement.Requirement, error) {
	switch {
	case primaryCommit != "":
		return Encode(workbook, primaryBranch, primaryCommit)
	case fallbackCommit != "":
		return Encode(workbook, fallbackBranch, fallbackCommit)
	default:
		return requirement.Requirement{}, NewNoCommitFoundError(workbook)
	}
}

// Decode recovers the (normalized branch, commit) pair embedded in an
// internal requirement's version. Everything before the last dot of the local
// segment is the branch, the last dot-segment is the commit.
func Decode(r requirement.Requirement) (branch, commit string, err error) {
	if r.Version == "" {
		return "", "", NewMalformedVersionError(r.String())
	}

	_, local, found := strings.Cut(r.Version, "+")
	if !found || local == "" {
		return "", "", NewMalformedVersionError(r.Version)
	}

	idx := strings.LastIndex(local, ".")
	if idx == -1 {
		// No branch segment at all; the whole local part is the commit.
		return "", local, nil
	}

	return local[:idx], local[idx+1:], nil
}

func isShortHash(commit string) bool {
	if len(commit) != ShortHashLen {
		return false
	}
	for i := 0; i < len(commit); i++ {
		c := commit[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
