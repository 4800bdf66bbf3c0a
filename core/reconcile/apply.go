package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// apply hands a merged diff to the updater: bulk add, per-record update, bulk delete.
// No identity appears in two sets, so the phases do not interfere with each other.
func (c *Coordinator) apply(ctx context.Context, l *zap.Logger, diff *DiffResult) error {
	ctx, span := tracer.Start(ctx, "reconcile.apply")
	defer span.End()

	if len(diff.ToAdd) > 0 {
		if err := c.updater.Add(ctx, diff.ToAdd); err != nil {
			return fmt.Errorf("failed to add %d records: %w", len(diff.ToAdd), err)
		}
		l.Debug("Added index entries", zap.Int("count", len(diff.ToAdd)))
	}

	// Updates are issued one record at a time
	var updateErrs []error
	for _, record := range diff.ToUpdate {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("update loop interrupted: %w", err)
			}
		}

		if err := c.updater.Update(ctx, record); err != nil {
			err = fmt.Errorf("failed to update %s %d: %w", record.EntityType(), record.EntityID(), err)
			if !c.cfg.ContinueOnUpdateError {
				return err
			}
			l.Warn("Update failed, continuing with remaining records", zap.Error(err))
			updateErrs = append(updateErrs, err)
		}
	}
	if len(diff.ToUpdate) > 0 {
		l.Debug("Updated index entries",
			zap.Int("count", len(diff.ToUpdate)),
			zap.Int("failed", len(updateErrs)))
	}

	if len(diff.ToDelete) > 0 {
		if err := c.updater.Delete(ctx, diff.ToDelete); err != nil {
			return fmt.Errorf("failed to delete %d entries: %w", len(diff.ToDelete), err)
		}
		l.Debug("Deleted index entries", zap.Int("count", len(diff.ToDelete)))
	}

	if len(updateErrs) > 0 {
		return fmt.Errorf("%d of %d updates failed: %w", len(updateErrs), len(diff.ToUpdate), errors.Join(updateErrs...))
	}
	return nil
}
