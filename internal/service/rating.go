package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"skillbridge/internal/cache"
	"skillbridge/internal/repository"
)

const tutorCacheTTL = 5 * time.Minute

// AverageRating returns sum/count rounded half-up to two decimals, or zero
// when there are no ratings.
func AverageRating(sum, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).DivRound(decimal.NewFromInt(count), 2)
}

// recomputeTutorRating rebuilds the tutor's rating aggregate from its full
// review set. It must run inside the transaction that changed the reviews
// and after the tutor row has been locked.
func recomputeTutorRating(ctx context.Context, tx repository.Store, tutorID uuid.UUID) error {
	stats, err := tx.Reviews().RatingStats(ctx, tutorID)
	if err != nil {
		return fmt.Errorf("rating stats: %w", err)
	}
	rating := AverageRating(stats.RatingSum, stats.Total)
	if err := tx.Tutors().UpdateRating(ctx, tutorID, rating, int(stats.Total)); err != nil {
		return fmt.Errorf("update tutor rating: %w", err)
	}
	return nil
}

func tutorCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("tutor:%s", id.String())
}

func invalidateTutor(ctx context.Context, c *cache.Client, ids ...uuid.UUID) {
	for _, id := range ids {
		_ = c.Delete(ctx, tutorCacheKey(id))
	}
}
