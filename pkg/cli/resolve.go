package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bindlehq/bindle/pkg/config"
)

func newResolveCommand() *Command {
	cmd := &Command{
		Name:        "resolve",
		Description: "Resolve workbooks into pinned requirements without installing",
		Flags:       flag.NewFlagSet("resolve", flag.ExitOnError),
		Run:         runResolve,
	}

	cmd.Flags.String("manifest", "", "Workbook manifest file (YAML)")
	cmd.Flags.String("primary", "", "Primary branch (overrides configuration)")
	cmd.Flags.String("fallback", "", "Fallback branch (overrides configuration)")
	cmd.Flags.Bool("json", false, "Emit the resolution as JSON")

	return cmd
}

func runResolve(args []string) error {
	cmd := newResolveCommand()
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
	asJSON := cmd.Flags.Lookup("json").Value.String() == "true"

	t, err := loadTargets(cfg, manifest, primary, fallback, cmd.Flags.Args())
	if err != nil {
		return err
	}

	res, _, err := buildResolver(cfg, log, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resolution, err := res.Resolve(context.Background(), t.Workbooks, t.Primary, t.Fallback)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resolution); err != nil {
			return err
		}
	} else {
		for _, req := range resolution.Internal {
			fmt.Println(req.String())
		}
		for _, req := range resolution.External {
			fmt.Println(req.String())
		}
	}

	log.Infof("Resolved %d workbooks in %.2f seconds", len(t.Workbooks), time.Since(start).Seconds())
	return nil
}
