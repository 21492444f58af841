package redisinfra

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/go-clinic-api/internal/domain"
)

var errOTPThrottled = domain.NewError(domain.ErrTooManyRequests, "Too many OTP requests, please try again later")

// OTPLimiter throttles OTP mail per purpose and email: one request per
// cooldown, and at most limit requests per window. A nil limiter or a nil
// client allows everything. Redis errors fail open.
type OTPLimiter struct {
	client   *redis.Client
	cooldown time.Duration
	window   time.Duration
	limit    int
}

func NewOTPLimiter(client *redis.Client, cooldown, window time.Duration, limit int) *OTPLimiter {
	if limit <= 0 {
		limit = 5
	}
	return &OTPLimiter{client: client, cooldown: cooldown, window: window, limit: limit}
}

// Allow records an OTP request and returns a TooManyRequests error when the
// caller must wait.
func (l *OTPLimiter) Allow(ctx context.Context, purpose, email string) error {
	if l == nil || l.client == nil {
		return nil
	}
	base := "otp:" + purpose + ":" + email

	if l.cooldown > 0 {
		ok, err := l.client.SetNX(ctx, base+":cooldown", 1, l.cooldown).Result()
		if err != nil {
			slog.Warn("otp limiter unavailable", "err", err)
			return nil
		}
		if !ok {
			return errOTPThrottled
		}
	}

	if l.window > 0 {
		// The counter is created with its TTL in the same MULTI, so it can
		// never outlive the window.
		key := base + ":count"
		var incr *redis.IntCmd
		_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, key, 0, l.window)
			incr = pipe.Incr(ctx, key)
			return nil
		})
		if err != nil {
			slog.Warn("otp limiter unavailable", "err", err)
			return nil
		}
		if incr.Val() > int64(l.limit) {
			return errOTPThrottled
		}
	}
	return nil
}
