package shopify

import (
	"context"
	"errors"
	"sync"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Shopify's REST admin API leaky bucket: 40 requests, refilled at 2 per second
const (
	DefaultRequestsPerSecond = 2
	DefaultBurst             = 40
)

// RateLimiter keeps one token bucket per shop so a busy shop cannot exhaust
// another shop's admin API budget.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	logger   zerolog.Logger
}

// NewRateLimiter creates a per-shop rate limiter with Shopify's default bucket
func NewRateLimiter(logger zerolog.Logger) *RateLimiter {
	return NewRateLimiterWithLimit(DefaultRequestsPerSecond, DefaultBurst, logger)
}

// NewRateLimiterWithLimit creates a per-shop rate limiter
func NewRateLimiterWithLimit(requestsPerSecond float64, burst int, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(requestsPerSecond),
		burst:    burst,
		logger:   logger,
	}
}

func (r *RateLimiter) limiter(shop string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[shop]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[shop] = l
	}
	return l
}

// Wait blocks until the shop may issue another request
func (r *RateLimiter) Wait(ctx context.Context, shop string) error {
	if r == nil {
		return nil
	}
	return r.limiter(shop).Wait(ctx)
}

// RetryConfig controls retries of throttled admin API calls
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the retry settings used in production
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}
}

// backoff returns the delay before retry attempt n (0-based). A Retry-After
// hint from Shopify takes precedence.
func (rc RetryConfig) backoff(attempt int, retryAfter int) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	d := rc.InitialBackoff << attempt
	if rc.MaxBackoff > 0 && (d > rc.MaxBackoff || d <= 0) {
		d = rc.MaxBackoff
	}
	return d
}

// retryAfter reports whether err is a throttling response and its Retry-After hint
func retryAfter(err error) (int, bool) {
	var rl goshopify.RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter, true
	}
	var rlp *goshopify.RateLimitError
	if errors.As(err, &rlp) && rlp != nil {
		return rlp.RetryAfter, true
	}
	return 0, false
}

// isNotFound reports whether err is a 404 response from the admin API
func isNotFound(err error) bool {
	var re goshopify.ResponseError
	if errors.As(err, &re) {
		return re.Status == 404
	}
	var rep *goshopify.ResponseError
	if errors.As(err, &rep) && rep != nil {
		return rep.Status == 404
	}
	return false
}
