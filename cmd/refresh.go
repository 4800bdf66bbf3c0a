package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"search-indexer/core/reconcile"
	"search-indexer/feature/textsearch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunRefresh bool
	yesConfirm    bool
)

// refreshCmd runs one reconciliation and exits.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reconcile the text search index once",
	Long: `Diff the CMS content tables against the text search index and apply the result.

The pending diff is printed first. Deletions require confirmation unless --yes is set.

Examples:
  # Report only
  search-indexer refresh --dry-run

  # Apply with interactive confirmation
  search-indexer refresh

  # Apply non-interactively (cron, CI)
  search-indexer refresh --yes`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().BoolVar(&dryRunRefresh, "dry-run", false, "Compute and print the diff without applying it")
	refreshCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm deletions (non-interactive)")

	RootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()
	l := a.logger

	preview, err := a.feature.Service().Preview(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute diff: %w", err)
	}
	printPreview(l, preview)

	if preview.Summary.Total() == 0 {
		l.Info("Index is up to date")
		return nil
	}

	if !dryRunRefresh && preview.Summary.Deleted > 0 && !confirmDeletions(preview.Summary.Deleted) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	opts := reconcile.RunOptions{DryRun: dryRunRefresh}
	if !dryRunRefresh && !yesConfirm {
		// Never delete more than the user was shown
		opts.LimitDeletes = true
		opts.MaxDeletes = preview.Summary.Deleted
	}

	report, err := a.feature.Service().RefreshWithOptions(ctx, opts)
	if errors.Is(err, reconcile.ErrDeleteLimitExceeded) {
		return fmt.Errorf("index changed since the preview, run refresh again: %w", err)
	}
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	if report.Skipped {
		l.Warn("Another run holds the lock, nothing was applied")
		return nil
	}

	l.Info("Refresh finished",
		zap.String("run_id", report.RunID),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("added", report.Summary.Added),
		zap.Int("updated", report.Summary.Updated),
		zap.Int("deleted", report.Summary.Deleted),
		zap.Duration("duration", report.Duration()),
	)
	return nil
}

// printPreview logs the pending counts per base type and a sample of each set.
func printPreview(l *zap.Logger, p *textsearch.Preview) {
	l.Info("Pending changes",
		zap.Int("added", p.Summary.Added),
		zap.Int("updated", p.Summary.Updated),
		zap.Int("deleted", p.Summary.Deleted),
	)
	for base, c := range p.Summary.PerBaseType {
		if c.Total() == 0 {
			continue
		}
		l.Info("Base type", zap.String("base_type", base),
			zap.Int("added", c.Added), zap.Int("updated", c.Updated), zap.Int("deleted", c.Deleted))
	}

	const maxShow = 5
	sample := func(kind string, items []textsearch.PreviewItem) {
		for i := 0; i < len(items) && i < maxShow; i++ {
			l.Info("Sample change", zap.String("kind", kind),
				zap.String("entity_type", items[i].EntityType), zap.Uint("entity_id", items[i].EntityID))
		}
	}
	sample("add", p.ToAdd)
	sample("update", p.ToUpdate)
	sample("delete", p.ToDelete)
}

// confirmDeletions prompts the user for confirmation or uses --yes flag.
func confirmDeletions(count int) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  %d index entries will be deleted. Type 'yes' to confirm: ", count)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
