package requirement

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultInternalPrefix is the package-name prefix used by internally
// published workbook packages on the private index.
const DefaultInternalPrefix = "index"

// Requirement is a package requirement: a name plus an optional pinned
// version. A zero Version means the requirement is unconstrained.
type Requirement struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// New creates a requirement.
func New(name, version string) Requirement {
	return Requirement{Name: name, Version: version}
}

// String renders the requirement in pip form: "name==version" when a version
// is pinned, otherwise just "name". Two requirements are equal iff their
// renderings are equal.
func (r Requirement) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "==" + r.Version
}

var (
	// e.g. "index-files==0.0.0+feature.deps.34330ff"
	pinPattern = regexp.MustCompile(`^(.+?)\s*==\s*(.+?)\s*$`)
	// e.g. "index-commands (==0.0.0+feature.deps.acbdc9f)" as found in
	// wheel metadata Requires-Dist entries
	metadataPinPattern = regexp.MustCompile(`^(.+?)\s*\(==(.+?)\)\s*$`)
)

// Parse parses a requirement string of the form "pkg==version" or a bare
// package name.
func Parse(s string) Requirement {
	if m := pinPattern.FindStringSubmatch(s); m != nil {
		return Requirement{Name: m[1], Version: m[2]}
	}
	return Requirement{Name: strings.TrimSpace(s)}
}

// ParseMetadata parses a dependency spec as declared in built-artifact
// metadata: "pkg (==version)" or a bare package name.
func ParseMetadata(s string) Requirement {
	if m := metadataPinPattern.FindStringSubmatch(s); m != nil {
		return Requirement{Name: m[1], Version: m[2]}
	}
	return Requirement{Name: strings.TrimSpace(s)}
}

// IsInternal reports whether a requirement names an internally published
// workbook package. Internal requirements always carry a pinned version; a
// bare name is never internal even when it matches the prefix.
func IsInternal(r Requirement, prefix string) bool {
	return strings.HasPrefix(r.Name, prefix) && r.Version != ""
}

// Classify partitions requirements into internal and external sets. Both
// outputs are deduplicated by rendering and sorted by rendering so installs
// are reproducible.
func Classify(reqs []Requirement, prefix string) (internal, external []Requirement) {
	for _, r := range reqs {
		if IsInternal(r, prefix) {
			internal = append(internal, r)
		} else {
			external = append(external, r)
		}
	}
	return SortedUnique(internal), SortedUnique(external)
}

// GroupByName groups requirements by package name.
func GroupByName(reqs []Requirement) map[string][]Requirement {
	grouped := make(map[string][]Requirement)
	for _, r := range reqs {
		grouped[r.Name] = append(grouped[r.Name], r)
	}
	return grouped
}

// SortedUnique deduplicates requirements by rendering and returns them
// sorted by rendering.
func SortedUnique(reqs []Requirement) []Requirement {
	seen := make(map[string]bool, len(reqs))
	out := make([]Requirement, 0, len(reqs))
	for _, r := range reqs {
		key := r.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// Renderings returns the string renderings of requirements, in order.
func Renderings(reqs []Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.String()
	}
	return out
}
