package main

import (
	"bufio"
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/commonsbots/geograph-sync/internal/geodb"
	"github.com/commonsbots/geograph-sync/internal/reconcile"
	"github.com/commonsbots/geograph-sync/pkg/commons"
	"github.com/commonsbots/geograph-sync/pkg/mapit"
)

var (
	syncFile   string
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [page title ...]",
	Short: "Reconcile Commons file pages against the Geograph database",
	Long:  "Takes file page titles as arguments, or a worklist file via --file, and brings each page's location templates and credit line in line with the Geograph database row it references.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		titles, err := worklist(args, syncFile)
		if err != nil {
			return err
		}
		if len(titles) == 0 {
			zap.L().Info("no pages to process")
			return nil
		}

		db, err := geodb.Open(cfg.Geodb.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		client := commons.NewClient(cfg.Commons.APIURL,
			commons.WithRateLimit(cfg.Commons.RateLimit),
			commons.WithUserAgent(cfg.Commons.UserAgent),
		)

		var regions reconcile.RegionService
		if cfg.MapIt.Enabled {
			regions = mapit.NewClient(cfg.MapIt.BaseURL, mapit.WithRateLimit(cfg.MapIt.RateLimit))
		}

		orch := reconcile.New(client, overlayAdapter{client}, db, regions, reconcile.Config{
			UpdateWithOverlay: cfg.Sync.UpdateWithOverlay,
			MaxRestarts:       cfg.Sync.MaxRestarts,
			DryRun:            syncDryRun,
		})

		return processWorklist(ctx, titles, cfg.Sync.Concurrency, orch.ReconcileItem)
	},
}

func init() {
	syncCmd.Flags().StringVar(&syncFile, "file", "", "file with one page title per line")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "decide and log but do not save edits")
	rootCmd.AddCommand(syncCmd)
}

// worklist merges titles given as arguments with those read from a file.
// Blank lines and lines starting with # are ignored; duplicates keep the
// first occurrence.
func worklist(args []string, path string) ([]string, error) {
	titles := append([]string{}, args...)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "sync: open worklist")
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			titles = append(titles, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, eris.Wrap(err, "sync: read worklist")
		}
	}

	seen := make(map[string]bool, len(titles))
	out := titles[:0]
	for _, t := range titles {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// reconcileFunc is the callback signature for reconciling one page.
type reconcileFunc func(ctx context.Context, title string) (*reconcile.Result, error)

// processWorklist runs reconciliation over the titles concurrently. A skip
// failure logs and moves on; a fatal failure aborts the whole run.
func processWorklist(ctx context.Context, titles []string, concurrency int, reconcileItem reconcileFunc) error {
	zap.L().Info("processing worklist",
		zap.Int("pages", len(titles)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var edited, unchanged, skipped atomic.Int64

	for _, title := range titles {
		g.Go(func() error {
			log := zap.L().With(zap.String("page", title))

			result, err := reconcileItem(gctx, title)
			if err != nil {
				var itemErr *reconcile.ItemError
				if errors.As(err, &itemErr) && itemErr.Kind == reconcile.KindSkip {
					skipped.Add(1)
					log.Warn("page skipped", zap.Error(itemErr.Err))
					return nil
				}
				return eris.Wrap(err, "sync: reconcile "+title)
			}

			if result.Committed {
				edited.Add(1)
				log.Info("page edited",
					zap.String("summary", result.Summary),
					zap.Int("attempts", result.Attempts),
				)
			} else {
				unchanged.Add(1)
				log.Debug("page unchanged")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	zap.L().Info("worklist complete",
		zap.Int64("edited", edited.Load()),
		zap.Int64("unchanged", unchanged.Load()),
		zap.Int64("skipped", skipped.Load()),
	)
	return nil
}

// overlayAdapter exposes a commons client's structured-data statements under
// the orchestrator's statement type.
type overlayAdapter struct {
	client commons.Client
}

func (a overlayAdapter) Statements(ctx context.Context, title string) (map[string][]reconcile.Statement, error) {
	raw, err := a.client.Statements(ctx, title)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]reconcile.Statement, len(raw))
	for prop, stmts := range raw {
		for _, s := range stmts {
			out[prop] = append(out[prop], reconcile.Statement{ID: s.ID, Property: s.Property})
		}
	}
	return out, nil
}
