// Package installer hands resolved requirement lists to pip.
//
// Internal requirements install from the local package index only, with
// dependency resolution disabled (the resolver already did it); external
// requirements install from the public index as usual.
package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"

	"github.com/bindlehq/bindle/pkg/requirement"
)

// DefaultPip is the pip executable used when none is configured.
const DefaultPip = "pip"

// PipInstaller installs requirements by shelling out to pip.
type PipInstaller struct {
	pip       string
	findLinks string
	log       *logrus.Logger
}

// NewPipInstaller creates an installer. findLinks is the local index
// directory internal wheels are installed from.
func NewPipInstaller(pip, findLinks string, log *logrus.Logger) *PipInstaller {
	if pip == "" {
		pip = DefaultPip
	}
	if log == nil {
		log = logrus.New()
	}

	return &PipInstaller{
		pip:       pip,
		findLinks: findLinks,
		log:       log,
	}
}

// InstallInternal installs internal requirements from the local index. The
// resolver produced a complete closed set, so pip's own dependency
// resolution is disabled.
func (p *PipInstaller) InstallInternal(ctx context.Context, reqs []requirement.Requirement) error {
	if len(reqs) == 0 {
		return nil
	}
	return p.run(ctx, internalInstallArgs(reqs, p.findLinks))
}

// InstallExternal installs external requirements from the public index.
func (p *PipInstaller) InstallExternal(ctx context.Context, reqs []requirement.Requirement) error {
	if len(reqs) == 0 {
		return nil
	}
	return p.run(ctx, externalInstallArgs(reqs))
}

// Installed lists the currently installed packages.
func (p *PipInstaller) Installed(ctx context.Context) ([]requirement.Requirement, error) {
	out, err := exec.CommandContext(ctx, p.pip, "list", "--format=json").Output()
	if err != nil {
		return nil, fmt.Errorf("pip list failed: %w", err)
	}
	return ParseInstalled(out)
}

// ParseInstalled decodes `pip list --format=json` output.
func ParseInstalled(out []byte) ([]requirement.Requirement, error) {
	var reqs []requirement.Requirement
	if err := json.Unmarshal(out, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode pip list output: %w", err)
	}
	return reqs, nil
}

func internalInstallArgs(reqs []requirement.Requirement, findLinks string) []string {
	args := append([]string{"install"}, requirement.Renderings(reqs)...)
	return append(args, "-v", "--no-deps", "--find-links="+findLinks)
}

func externalInstallArgs(reqs []requirement.Requirement) []string {
	return append([]string{"install"}, requirement.Renderings(reqs)...)
}

func (p *PipInstaller) run(ctx context.Context, args []string) error {
	p.log.WithField("args", args).Debug("Running pip")

	cmd := exec.CommandContext(ctx, p.pip, args...)
	out := p.log.WriterLevel(logrus.DebugLevel)
	defer out.Close()
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip %s failed: %w", args[0], err)
	}
	return nil
}
