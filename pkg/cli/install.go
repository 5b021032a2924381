package cli

import (
	"context"
	"flag"
	"time"

	"github.com/bindlehq/bindle/pkg/artifact"
	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/installer"
)

func newInstallCommand() *Command {
	cmd := &Command{
		Name:        "install",
		Description: "Resolve workbooks and install the result with pip",
		Flags:       flag.NewFlagSet("install", flag.ExitOnError),
		Run:         runInstall,
	}

	cmd.Flags.String("manifest", "", "Workbook manifest file (YAML)")
	cmd.Flags.String("primary", "", "Primary branch (overrides configuration)")
	cmd.Flags.String("fallback", "", "Fallback branch (overrides configuration)")
	cmd.Flags.Bool("skip-sync", false, "Skip syncing the local index before resolving")
	cmd.Flags.Bool("skip-external", false, "Install internal packages only")

	return cmd
}

func runInstall(args []string) error {
	cmd := newInstallCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	manifest := cmd.Flags.Lookup("manifest").Value.String()
	primary := cmd.Flags.Lookup("primary").Value.String()
	fallback := cmd.Flags.Lookup("fallback").Value.String()
	skipSync := cmd.Flags.Lookup("skip-sync").Value.String() == "true"
	skipExternal := cmd.Flags.Lookup("skip-external").Value.String() == "true"

	t, err := loadTargets(cfg, manifest, primary, fallback, cmd.Flags.Args())
	if err != nil {
		return err
	}

	res, store, err := buildResolver(cfg, log, nil)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()

	if !skipSync && cfg.Index.Bucket != "" {
		syncer, err := artifact.NewSyncer(ctx, syncConfig(cfg), log)
		if err != nil {
			return err
		}
		if err := syncer.Sync(ctx, store.Root()); err != nil {
			return err
		}
	}

	resolution, err := res.Resolve(ctx, t.Workbooks, t.Primary, t.Fallback)
	if err != nil {
		return err
	}

	pip := installer.NewPipInstaller(cfg.Install.Pip, store.Root(), log)
	if err := pip.InstallInternal(ctx, resolution.Internal); err != nil {
		return err
	}
	if !skipExternal {
		if err := pip.InstallExternal(ctx, resolution.External); err != nil {
			return err
		}
	}

	log.Infof("Installed %d internal and %d external packages in %.2f seconds",
		len(resolution.Internal), len(resolution.External), time.Since(start).Seconds())
	return nil
}
