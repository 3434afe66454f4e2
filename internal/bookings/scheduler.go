package bookings

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quickshow/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReleaseScheduler queues bookings for the release check that runs once the
// hold window has passed.
type ReleaseScheduler interface {
	// Schedule enqueues the booking for a release check at due.
	Schedule(ctx context.Context, bookingID uuid.UUID, due time.Time) error

	// ClaimDue removes and returns up to limit bookings whose due time has
	// passed. A booking is returned to at most one caller.
	ClaimDue(ctx context.Context, now time.Time, limit int64) ([]uuid.UUID, error)
}

// redisScheduler keeps the due queue in a Redis sorted set scored by the
// release due time in unix seconds. Survives process restarts.
type redisScheduler struct {
	client *redis.Client
}

func NewReleaseScheduler(client *redis.Client) ReleaseScheduler {
	return &redisScheduler{client: client}
}

func (s *redisScheduler) Schedule(ctx context.Context, bookingID uuid.UUID, due time.Time) error {
	err := s.client.ZAdd(ctx, constants.KEY_BOOKING_RELEASE_DUE, redis.Z{
		Score:  float64(due.Unix()),
		Member: bookingID.String(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to schedule booking release: %w", err)
	}
	return nil
}

func (s *redisScheduler) ClaimDue(ctx context.Context, now time.Time, limit int64) ([]uuid.UUID, error) {
	members, err := s.client.ZRangeByScore(ctx, constants.KEY_BOOKING_RELEASE_DUE, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read release queue: %w", err)
	}

	var claimed []uuid.UUID
	for _, member := range members {
		// ZRem is the claim: only the worker that removes the member
		// processes it, so concurrent instances do not double-release.
		removed, err := s.client.ZRem(ctx, constants.KEY_BOOKING_RELEASE_DUE, member).Result()
		if err != nil {
			return claimed, fmt.Errorf("failed to claim release entry: %w", err)
		}
		if removed == 0 {
			continue
		}

		id, err := uuid.Parse(member)
		if err != nil {
			// Malformed member, drop it.
			continue
		}
		claimed = append(claimed, id)
	}

	return claimed, nil
}
