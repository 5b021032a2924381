package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/bindlehq/bindle/pkg/artifact"
	"github.com/bindlehq/bindle/pkg/config"
)

func newSyncCommand() *Command {
	cmd := &Command{
		Name:        "sync",
		Description: "Mirror the remote package index into the local directory",
		Flags:       flag.NewFlagSet("sync", flag.ExitOnError),
		Run:         runSync,
	}

	cmd.Flags.String("dir", "", "Local index directory (overrides configuration)")

	return cmd
}

func runSync(args []string) error {
	cmd := newSyncCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	if cfg.Index.Bucket == "" {
		return fmt.Errorf("no index bucket configured: set BINDLE_INDEX_BUCKET")
	}

	dir := cmd.Flags.Lookup("dir").Value.String()
	if dir == "" {
		dir = cfg.Index.LocalDir
	}

	ctx := context.Background()
	syncer, err := artifact.NewSyncer(ctx, syncConfig(cfg), log)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := syncer.Sync(ctx, dir); err != nil {
		return err
	}

	log.Infof("Synced index into %s in %.2f seconds", dir, time.Since(start).Seconds())
	return nil
}
