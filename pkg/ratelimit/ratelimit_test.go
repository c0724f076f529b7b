package ratelimit

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleepDuration(t *testing.T) {
	tests := []struct {
		name     string
		headers  http.Header
		expected time.Duration
	}{
		{
			name:     "zero rate is clamped",
			headers:  http.Header{"x-amzn-RateLimit-Limit": []string{"0"}},
			expected: 10 * time.Second,
		},
		{
			name:     "missing header uses default rate",
			headers:  http.Header{},
			expected: 10 * time.Millisecond,
		},
		{
			name:     "nil headers",
			headers:  nil,
			expected: 10 * time.Millisecond,
		},
		{
			name:     "garbage uses default rate",
			headers:  http.Header{"X-Amzn-Ratelimit-Limit": []string{"garbage"}},
			expected: 10 * time.Millisecond,
		},
		{
			name:     "fractional rate",
			headers:  http.Header{"X-AMZN-RATELIMIT-LIMIT": []string{"0.5"}},
			expected: 2 * time.Second,
		},
		{
			name:     "negative rate is clamped",
			headers:  http.Header{"x-amzn-ratelimit-limit": []string{"-3"}},
			expected: 10 * time.Second,
		},
		{
			name:     "regular rate",
			headers:  http.Header{"X-Amzn-Ratelimit-Limit": []string{" 20 "}},
			expected: 50 * time.Millisecond,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SleepDuration(tc.headers))
		})
	}
}

func TestPacer(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	slept := []time.Duration{}

	pacer := NewPacer(1, 1).
		WithClock(func() time.Time { return now }).
		WithSleep(func(d time.Duration) { slept = append(slept, d) })

	assert.Equal(t, time.Duration(0), pacer.Wait())
	assert.Equal(t, time.Second, pacer.Wait())
	assert.Equal(t, 2*time.Second, pacer.Wait())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}
