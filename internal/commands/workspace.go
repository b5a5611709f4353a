package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/faktury-dev/faktury/internal/activity"
	"github.com/faktury-dev/faktury/internal/companies"
	"github.com/faktury-dev/faktury/internal/config"
	"github.com/faktury-dev/faktury/internal/fleet"
	"github.com/faktury-dev/faktury/internal/gitops"
	"github.com/faktury-dev/faktury/internal/invoices"
	"github.com/faktury-dev/faktury/internal/logger"
	"github.com/faktury-dev/faktury/internal/model"
	"github.com/faktury-dev/faktury/internal/store"
)

// envFile is the optional dotenv file at the workspace root.
const envFile = ".env"

// workspace is an opened faktury directory with its services.
type workspace struct {
	root      string
	cfg       *config.Config
	store     *store.Store
	companies *companies.Service
	invoices  *invoices.Service
	fleet     *fleet.Service
	now       func() time.Time
	log       zerolog.Logger
}

// openWorkspace loads the workspace at dir. Diagnostic logs go to logOut,
// or stderr when it is nil.
func openWorkspace(ctx context.Context, dir string, now func() time.Time, logOut io.Writer) (*workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a faktury workspace (run \"faktury init\" first)", root)
	}
	cfg, err := config.LoadWithEnv(cfgPath, filepath.Join(root, envFile))
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: logOut}); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, root, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	comps := companies.NewService(st.Companies, cfg.Scoring)
	ws := &workspace{
		root:      root,
		cfg:       cfg,
		store:     st,
		companies: comps,
		invoices:  invoices.NewService(st.Invoices, comps).WithClock(now),
		fleet:     fleet.NewService(st).WithClock(now),
		now:       now,
		log:       logger.WithComponent("workspace"),
	}
	ws.log.Debug().Str("root", root).Str("backend", cfg.Storage.Backend).Msg("workspace opened")
	return ws, nil
}

func (w *workspace) Close() error {
	return w.store.Close()
}

// snapshot loads invoices and fuel entries concurrently.
func (w *workspace) snapshot(ctx context.Context) ([]model.Invoice, []model.FuelEntry, error) {
	var invs []model.Invoice
	var fuel []model.FuelEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invs, err = w.invoices.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		fuel, err = w.fleet.Fuel(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("loading records: %w", err)
	}
	return invs, fuel, nil
}

// record appends an activity entry and, when auto-commit is on, commits
// the workspace with message "<command>: <details>".
func (w *workspace) record(ctx context.Context, command, action, details, recordID string) error {
	entry := activity.Entry{
		Timestamp: w.now(),
		Command:   command,
		Action:    action,
		Details:   details,
		RecordID:  recordID,
	}
	if err := activity.Append(w.root, entry); err != nil {
		w.log.Warn().Err(err).Msg("failed to write activity log")
	}

	if !w.cfg.Git.AutoCommit || !gitops.IsRepo(w.root) {
		return nil
	}
	hash, err := gitops.CommitAll(ctx, w.root, command+": "+details, w.cfg.Git.AuthorName, w.cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("auto-commit: %w", err)
	}
	if hash != "" {
		w.log.Debug().Str("commit", hash).Str("command", command).Msg("committed")
	}
	return nil
}

// withWorkspace opens the workspace named by the --repo flag, runs fn and
// closes it.
func withWorkspace(ctx context.Context, opts *rootOptions, fn func(*workspace) error) error {
	ws, err := openWorkspace(ctx, opts.repo, opts.now, opts.logOut)
	if err != nil {
		return err
	}
	defer ws.Close()
	return fn(ws)
}
