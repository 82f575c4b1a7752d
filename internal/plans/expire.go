package plans

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aidanlsb/planvault/internal/dates"
)

// ArchiveOldReviewed archives Reviewed plans whose review_date is strictly
// older than today minus daysOld days, and returns how many were archived.
// Plans without a parseable review_date are left alone. Failures on
// individual plans do not stop the sweep; they are joined into the error.
//
// Each plan is archived from Reviewed directly rather than through
// ArchivePlan, whose Inbox-first lookup would archive a stale Inbox
// duplicate of the same filename instead of the reviewed copy.
func (m *Manager) ArchiveOldReviewed(ctx context.Context, daysOld int) (int, error) {
	if daysOld < 0 {
		return 0, fmt.Errorf("%w: days must not be negative, got %d", ErrInvalidArgument, daysOld)
	}

	cutoff := dates.DaysBefore(m.now(), daysOld, m.loc)
	reviewed, err := m.ListTechnicalPlans(ctx, ListOptions{Folder: Reviewed, IncludeDuplicates: true})
	if err != nil {
		return 0, err
	}

	var (
		count int
		errs  []error
	)
	for _, s := range reviewed {
		if s.Metadata == nil {
			continue
		}
		raw, ok := s.Metadata.Get(KeyReviewDate)
		if !ok {
			continue
		}
		reviewedOn, err := dates.ParseDay(raw, m.loc)
		if err != nil {
			m.logger.Debug("skipping plan with unparseable review_date",
				zap.String("filename", s.Filename), zap.String("review_date", raw))
			continue
		}
		if !reviewedOn.Before(cutoff) {
			continue
		}

		archived, err := m.archiveFrom(ctx, Reviewed, s.Filename)
		if err != nil {
			errs = append(errs, fmt.Errorf("archive %s: %w", s.Filename, err))
			continue
		}
		if archived {
			count++
		}
	}

	if count > 0 {
		m.logger.Info("archived old reviewed plans", zap.Int("count", count), zap.Int("days_old", daysOld))
	}
	return count, errors.Join(errs...)
}
