package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/faktury-dev/faktury/internal/activity"
	"github.com/faktury-dev/faktury/internal/config"
	"github.com/faktury-dev/faktury/internal/export"
	"github.com/faktury-dev/faktury/internal/gitops"
	"github.com/faktury-dev/faktury/internal/store"
	"github.com/faktury-dev/faktury/internal/validate"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var name string
	var nip string
	var backend string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new faktury workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.repo
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg := config.Default(name)
			cfg.Storage.Backend = backend
			if nip != "" {
				r := validate.NIP(nip)
				if !r.OK() {
					return fmt.Errorf("nip: %s", r.Message())
				}
				cfg.Business.NIP = r.Value
			}
			if noGit {
				cfg.Git.AutoCommit = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			hash, err := runInit(cmd.Context(), absDir, cfg, opts.now(), !noGit)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized faktury workspace at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized faktury workspace at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&nip, "nip", "", "business tax ID")
	cmd.Flags().StringVar(&backend, "backend", config.BackendCSV, "storage backend: csv or sqlite")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(ctx context.Context, dir string, cfg *config.Config, now time.Time, withGit bool) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return "", fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	dirs := []string{
		store.DataDir,
		"logs",
		"import",
		filepath.Join("import", "processed"),
		export.Dir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	gitignore := "exports/\n.env\n*.db-journal\n*.db-wal\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}
	for _, d := range []string{store.DataDir, "import"} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return "", fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	if err := activity.Append(dir, activity.Entry{
		Timestamp: now,
		Command:   "init",
		Action:    "init",
		Details:   "Initialize " + cfg.Business.Name,
	}); err != nil {
		return "", err
	}

	if !withGit {
		return "", nil
	}
	if err := gitops.Init(ctx, dir); err != nil {
		return "", fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+cfg.Business.Name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
