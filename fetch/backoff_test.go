package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayBackOff_NextBackOff(t *testing.T) {
	tests := []struct {
		name  string
		delay RetryDelayFunc
		want  []time.Duration
	}{
		{
			name:  "given default delay, then follows 2s × 1.5^n",
			delay: DefaultRetryDelay,
			want:  []time.Duration{2 * time.Second, 3 * time.Second, 4500 * time.Millisecond},
		},
		{
			name:  "given nil delay, then uses default delay",
			delay: nil,
			want:  []time.Duration{2 * time.Second, 3 * time.Second},
		},
		{
			name:  "given constant delay, then constant",
			delay: ConstantDelay(10 * time.Millisecond),
			want:  []time.Duration{10 * time.Millisecond, 10 * time.Millisecond},
		},
		{
			name: "given negative delay, then stops",
			delay: func(attempt int) time.Duration {
				if attempt > 1 {
					return -1
				}
				return time.Millisecond
			},
			want: []time.Duration{time.Millisecond, backoff.Stop},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewDelayBackOff(tt.delay)

			got := make([]time.Duration, 0, len(tt.want))
			for range tt.want {
				got = append(got, b.NextBackOff())
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), b.Attempt())
		})
	}
}

func TestDelayBackOff_Reset(t *testing.T) {
	b := NewDelayBackOff(DefaultRetryDelay)

	b.NextBackOff()
	b.NextBackOff()
	b.Reset()

	assert.Equal(t, 0, b.Attempt())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
}

func TestDelayBackOff_WithRetry(t *testing.T) {
	var attempts int
	errTransient := errors.New("transient")

	got, err := backoff.Retry(context.Background(), func() (string, error) {
		attempts++
		if attempts < 3 {
			return "", errTransient
		}
		return "done", nil
	},
		backoff.WithBackOff(NewDelayBackOff(ConstantDelay(time.Millisecond))),
		backoff.WithMaxTries(5),
	)

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 3, attempts)
}

func TestResolved_BackOff(t *testing.T) {
	res, err := Resolve(&Options{RetryDelay: ConstantDelay(time.Second)}, nil)
	require.NoError(t, err)

	b := res.BackOff()

	assert.Equal(t, time.Second, b.NextBackOff())
	assert.NotSame(t, b, res.BackOff())
}
