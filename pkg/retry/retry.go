package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/singer-io/tap-amazon-sp/pkg/ratelimit"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

// Throttler is implemented by errors signalling an exceeded remote quota
type Throttler interface {
	Throttled() bool
}

// IsThrottled reports whether any error of the chain is a throttling error
func IsThrottled(err error) bool {
	var throttler Throttler
	return errors.As(err, &throttler) && throttler.Throttled()
}

// Details describes a pending backoff
type Details struct {
	// Attempts made so far
	Tries int
	Wait  time.Duration
	Err   error
}

// Policy retries a call with exponential backoff while its error is retryable.
// The wait before attempt n+1 is Base * Factor^n, n starting at 0.
type Policy struct {
	MaxTries  int
	Base      time.Duration
	Factor    float64
	Retryable func(error) bool
	OnBackoff func(Details)
	Sleep     ratelimit.SleepFunc
}

// Default is used by regular endpoints
func Default() *Policy {
	return &Policy{
		MaxTries:  3,
		Base:      time.Second,
		Factor:    2,
		Retryable: IsThrottled,
		OnBackoff: LogBackoff,
		Sleep:     time.Sleep,
	}
}

// Critical is used by endpoints whose failure loses the whole pass
func Critical() *Policy {
	policy := Default()
	policy.MaxTries = 5
	policy.Base = 2 * time.Second
	return policy
}

func LogBackoff(details Details) {
	logger.Infof("Sleeping %.1f seconds before trying again", details.Wait.Seconds())
}

// WithSleep returns a copy sleeping through the given function
func (p *Policy) WithSleep(sleep ratelimit.SleepFunc) *Policy {
	policy := *p
	policy.Sleep = sleep
	return &policy
}

func (p *Policy) WithBackoffHook(hook func(Details)) *Policy {
	policy := *p
	policy.OnBackoff = hook
	return &policy
}

// Delay returns the wait following the given zero based attempt
func (p *Policy) Delay(attempt int) time.Duration {
	return time.Duration(float64(p.Base) * math.Pow(p.Factor, float64(attempt)))
}

// Do calls fn until it succeeds, fails with a non retryable error or runs out of tries
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsThrottled
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	maxTries := max(p.MaxTries, 1)

	var err error
	for attempt := 0; attempt < maxTries; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if !retryable(err) {
			return err
		}

		if attempt == maxTries-1 {
			break
		}

		wait := p.Delay(attempt)
		if p.OnBackoff != nil {
			p.OnBackoff(Details{Tries: attempt + 1, Wait: wait, Err: err})
		}
		sleep(wait)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("retry cancelled: %w", ctxErr)
		}
	}

	return fmt.Errorf("giving up after %d tries: %w", maxTries, err)
}
