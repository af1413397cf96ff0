package fetch

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

var _ backoff.BackOff = (*DelayBackOff)(nil)

// DelayBackOff exposes a RetryDelayFunc as a backoff.BackOff, so a retry
// executor built on github.com/cenkalti/backoff/v5 can follow the delay
// policy of resolved options.
//
// Example:
//
//	res, _ := fetch.Resolve(defaults, opts)
//	resp, err := backoff.Retry(ctx, op,
//	    backoff.WithBackOff(res.BackOff()),
//	    backoff.WithMaxTries(4),
//	)
//
// A DelayBackOff is not safe for concurrent use; create one per request.
type DelayBackOff struct {
	delay   RetryDelayFunc
	attempt int
}

// NewDelayBackOff wraps delay. A nil delay uses DefaultRetryDelay.
func NewDelayBackOff(delay RetryDelayFunc) *DelayBackOff {
	if delay == nil {
		delay = DefaultRetryDelay
	}
	return &DelayBackOff{delay: delay}
}

// NextBackOff returns the delay for the next attempt, or backoff.Stop when
// the policy returns a negative duration.
func (b *DelayBackOff) NextBackOff() time.Duration {
	b.attempt++
	d := b.delay(b.attempt)
	if d < 0 {
		return backoff.Stop
	}
	return d
}

// Reset restarts counting from the first attempt.
func (b *DelayBackOff) Reset() {
	b.attempt = 0
}

// Attempt returns the number of delays handed out since the last Reset.
func (b *DelayBackOff) Attempt() int {
	return b.attempt
}
