package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/installer"
	"github.com/bindlehq/bindle/pkg/requirement"
	"github.com/bindlehq/bindle/pkg/version"
)

func newListCommand() *Command {
	cmd := &Command{
		Name:        "list",
		Description: "List installed internal packages with branch and commit",
		Flags:       flag.NewFlagSet("list", flag.ExitOnError),
		Run:         runList,
	}

	cmd.Flags.Bool("all", false, "Include external packages")

	return cmd
}

func runList(args []string) error {
	cmd := newListCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.LogLevel)

	all := cmd.Flags.Lookup("all").Value.String() == "true"

	pip := installer.NewPipInstaller(cfg.Install.Pip, cfg.Index.LocalDir, log)
	installed, err := pip.Installed(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tBRANCH\tCOMMIT")
	for _, req := range installed {
		if !requirement.IsInternal(req, cfg.Index.InternalPrefix) {
			if !all {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t\t\n", req.Name, req.Version)
			continue
		}

		branch, commit, err := version.Decode(req)
		if err != nil {
			// Internally named but not branch pinned, list it bare
			fmt.Fprintf(w, "%s\t%s\t\t\n", req.Name, req.Version)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", req.Name, req.Version, branch, commit)
	}
	return w.Flush()
}
