package resolver

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/bindlehq/bindle/pkg/requirement"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestResolveConflicts_SingleCandidate(t *testing.T) {
	internal := []requirement.Requirement{req("index-foo==0.0.0+feat.other.def5678")}

	resolved := resolveConflicts(internal, "main", quietLogger(), nil)
	assert.Equal(t, []string{"index-foo==0.0.0+feat.other.def5678"}, requirement.Renderings(resolved))
}

func TestResolveConflicts_HomonymousBranchWins(t *testing.T) {
	internal := []requirement.Requirement{
		req("index-foo==0.0.0+feat.deps.abc1234"),
		req("index-foo==0.0.0+feat.other.def5678"),
	}

	resolved := resolveConflicts(internal, "feat/deps", quietLogger(), nil)
	assert.Equal(t, []string{"index-foo==0.0.0+feat.deps.abc1234"}, requirement.Renderings(resolved))
}

func TestResolveConflicts_DashedPrimaryBranchNormalized(t *testing.T) {
	internal := []requirement.Requirement{
		req("index-foo==0.0.0+fix.install.loop.abc1234"),
		req("index-foo==0.0.0+main.def5678"),
	}

	resolved := resolveConflicts(internal, "fix-install-loop", quietLogger(), nil)
	assert.Equal(t, []string{"index-foo==0.0.0+fix.install.loop.abc1234"}, requirement.Renderings(resolved))
}

func TestResolveConflicts_FallbackIsLexicographicFirst(t *testing.T) {
	internal := []requirement.Requirement{
		req("index-foo==0.0.0+zeta.1111111"),
		req("index-foo==0.0.0+alpha.2222222"),
	}

	resolved := resolveConflicts(internal, "feat/deps", quietLogger(), nil)
	assert.Equal(t, []string{"index-foo==0.0.0+alpha.2222222"}, requirement.Renderings(resolved))
}

func TestResolveConflicts_TwoHomonymousTakesFirst(t *testing.T) {
	// Two candidates from the primary branch at different commits: the
	// lexicographically first wins, deterministically.
	internal := []requirement.Requirement{
		req("index-foo==0.0.0+main.fff1111"),
		req("index-foo==0.0.0+main.aaa2222"),
	}

	resolved := resolveConflicts(internal, "main", quietLogger(), nil)
	assert.Equal(t, []string{"index-foo==0.0.0+main.aaa2222"}, requirement.Renderings(resolved))
}

func TestResolveConflicts_OnePerName(t *testing.T) {
	internal := []requirement.Requirement{
		req("index-foo==0.0.0+main.abc1234"),
		req("index-foo==0.0.0+feat.deps.def5678"),
		req("index-bar==0.0.0+main.0a1b2c3"),
	}

	resolved := resolveConflicts(internal, "main", quietLogger(), nil)
	assert.Equal(t, []string{
		"index-bar==0.0.0+main.0a1b2c3",
		"index-foo==0.0.0+main.abc1234",
	}, requirement.Renderings(resolved))
}
