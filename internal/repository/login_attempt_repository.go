package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginAttemptRepository counts failed login attempts per email within a
// sliding window so repeated credential failures can be throttled.
type LoginAttemptRepository interface {
	Record(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}

type loginAttemptRepository struct {
	client *redis.Client
	window time.Duration
}

// NewLoginAttemptRepository returns a Redis-backed implementation.
func NewLoginAttemptRepository(client *redis.Client, window time.Duration) LoginAttemptRepository {
	return &loginAttemptRepository{client: client, window: window}
}

func attemptKey(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}

// Record increments the failure counter and returns the running count. The
// window starts at the first failure.
func (r *loginAttemptRepository) Record(ctx context.Context, email string) (int64, error) {
	key := attemptKey(email)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// Reset clears the counter after a successful login.
func (r *loginAttemptRepository) Reset(ctx context.Context, email string) error {
	return r.client.Del(ctx, attemptKey(email)).Err()
}
