package patcher

import (
	"context"
	"fmt"

	"github.com/mitchellh/go-ps"

	"github.com/r2o3/rgskin-pkgfix/internal/config"
	"github.com/r2o3/rgskin-pkgfix/internal/domain/distribution"
	"github.com/r2o3/rgskin-pkgfix/internal/logger"
	"github.com/r2o3/rgskin-pkgfix/internal/repository/manifest"
)

// Options contains inputs for the patcher entry point.
type Options struct {
	// ConfigPath is an optional YAML settings file; empty means defaults and environment only.
	ConfigPath string
	// Root overrides the directory the distribution folders are relative to.
	Root string
	// BuildCheck refuses to patch while one of the configured build processes is running.
	BuildCheck bool
}

// patcher applies names and keywords to the resolved distribution targets.
type patcher struct {
	// targets are patched in order.
	targets []*distribution.Target
	// buildProcesses are executables that must not be running during a patch.
	buildProcesses []string
	// processes lists running processes for the build check.
	processes processLister
}

// Run loads settings and patches both manifests.
func Run(ctx context.Context, opts *Options) error {
	return run(ctx, opts, ps.Processes)
}

// run is Run with an injectable process lister.
func run(ctx context.Context, opts *Options, processes processLister) error {
	ctx = logger.WithName(ctx, "rgskin-pkgfix")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.Root != "" {
		cfg.Root = opts.Root
	}

	p := newPatcher(cfg)
	p.processes = processes

	if opts.BuildCheck {
		if err = ensureNoBuildRunning(ctx, p.buildProcesses, p.processes); err != nil {
			return err
		}
	}

	return p.Run(ctx)
}

// newPatcher creates a patcher for the targets described by cfg.
func newPatcher(cfg *config.Config) *patcher {
	return &patcher{
		targets:        cfg.Targets(),
		buildProcesses: cfg.BuildProcesses,
		processes:      ps.Processes,
	}
}

// Run patches every target in order and stops at the first failure.
func (p *patcher) Run(ctx context.Context) error {
	for _, target := range p.targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := patchTarget(ctx, target); err != nil {
			return fmt.Errorf("%s manifest: %w", target.Kind, err)
		}
	}

	logger.Info(ctx, "All package names and keywords updated")

	return nil
}

// Patch sets the name and keywords of the manifest at path and writes it back.
func Patch(ctx context.Context, path, name string, keywords []string) error {
	repo := manifest.NewFileRepository(path)
	if err := update(ctx, repo, name, keywords); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Package name and keywords updated", "path", repo.Path(), "name", name)

	return nil
}

// patchTarget patches a single distribution and logs its confirmation line.
func patchTarget(ctx context.Context, target *distribution.Target) error {
	repo := manifest.NewFileRepository(target.Path)

	logger.DebugKV(ctx, "Patching manifest", "target", target.Kind, "path", repo.Path())

	if err := update(ctx, repo, target.Name, target.Keywords); err != nil {
		return err
	}

	logger.Infof(ctx, "%s package name and keywords updated", target.Kind.Title())

	return nil
}

// update performs one load and one save through the repository.
func update(ctx context.Context, repo manifest.Repository, name string, keywords []string) error {
	doc, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	if previous, nameErr := doc.Name(); nameErr == nil {
		logger.DebugKV(ctx, "Replacing package name", "from", previous, "to", name)
	}

	if previous, keywordsErr := doc.Keywords(); keywordsErr == nil {
		logger.DebugKV(ctx, "Replacing package keywords", "from", previous, "to", keywords)
	}

	if err = doc.SetName(name); err != nil {
		return err
	}

	if err = doc.SetKeywords(keywords); err != nil {
		return err
	}

	return repo.Save(ctx, doc)
}
