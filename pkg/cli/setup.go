package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/artifact"
	"github.com/bindlehq/bindle/pkg/commits"
	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/resolver"
)

// newLogger builds the CLI logger from the configured level name.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	if parsed, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(parsed)
	}
	return log
}

// targets is the merged answer to "what should this run resolve":
// workbooks plus the branch pair, taken from a manifest file when one
// is given and overridden by flags and positional args.
type targets struct {
	Workbooks []string
	Primary   string
	Fallback  string
}

func loadTargets(cfg *config.Config, manifestPath, primaryFlag, fallbackFlag string, args []string) (*targets, error) {
	t := &targets{
		Primary:  cfg.Branches.Primary,
		Fallback: cfg.Branches.Fallback,
	}

	if manifestPath != "" {
		manifest, err := config.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		t.Workbooks = manifest.Workbooks
		if manifest.PrimaryBranch != "" {
			t.Primary = manifest.PrimaryBranch
		}
		if manifest.FallbackBranch != "" {
			t.Fallback = manifest.FallbackBranch
		}
	}

	// Positional workbooks extend the manifest set
	t.Workbooks = append(t.Workbooks, args...)

	if primaryFlag != "" {
		t.Primary = primaryFlag
	}
	if fallbackFlag != "" {
		t.Fallback = fallbackFlag
	}

	if len(t.Workbooks) == 0 {
		return nil, fmt.Errorf("no workbooks given: pass them as arguments or via -manifest")
	}
	if t.Primary == "" {
		return nil, fmt.Errorf("no primary branch given: set -primary, the manifest, or BINDLE_PRIMARY_BRANCH")
	}
	return t, nil
}

// buildResolver wires the commit client and the local artifact store
// into a resolver. Resolution needs a credential for the commit query,
// so a missing token fails here rather than mid-run.
func buildResolver(cfg *config.Config, log *logrus.Logger, metrics *observability.Metrics) (*resolver.Resolver, *artifact.Store, error) {
	if cfg.Remote.Token == "" {
		return nil, nil, fmt.Errorf("no GitHub token configured: set BINDLE_GITHUB_TOKEN or GITHUB_TOKEN")
	}

	store, err := artifact.NewStore(cfg.Index.LocalDir, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open local index: %w", err)
	}
	if metrics != nil {
		store.SetMetrics(metrics)
	}

	client := commits.NewClient(cfg.Remote.GraphQLEndpoint, cfg.Remote.Token, log)

	res := resolver.New(client, store, resolver.Options{
		InternalPrefix: cfg.Index.InternalPrefix,
		Workers:        cfg.Workers,
		Log:            log,
		Metrics:        metrics,
	})
	return res, store, nil
}

// syncConfig maps index settings onto the artifact syncer.
func syncConfig(cfg *config.Config) artifact.SyncConfig {
	return artifact.SyncConfig{
		Bucket:       cfg.Index.Bucket,
		Prefix:       cfg.Index.Prefix,
		Endpoint:     cfg.Index.S3Endpoint,
		Region:       cfg.Index.S3Region,
		AccessKey:    cfg.Index.S3AccessKey,
		SecretKey:    cfg.Index.S3SecretKey,
		UsePathStyle: cfg.Index.S3UsePathStyle,
	}
}
