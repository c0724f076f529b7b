package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/singer-io/tap-amazon-sp/constants"
	"golang.org/x/time/rate"
)

// SleepFunc pauses the caller. Tests replace it to observe waits without sleeping.
type SleepFunc func(time.Duration)

// SleepDuration converts the advertised request rate of a response into the pause
// before the next request. The rate header is matched case-insensitively; a missing
// or unparseable value falls back to the default rate and a non-positive one is
// clamped to the minimum rate.
func SleepDuration(headers http.Header) time.Duration {
	limit := constants.DefaultRateLimit
	if value, found := lookup(headers, constants.RateLimitHeader); found {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
			limit = parsed
		}
	}

	if limit <= 0 {
		limit = constants.MinRateLimit
	}

	return time.Duration(float64(time.Second) / limit)
}

func lookup(headers http.Header, key string) (string, bool) {
	for name, values := range headers {
		if strings.EqualFold(name, key) && len(values) > 0 {
			return values[0], true
		}
	}

	return "", false
}

// Pacer spaces requests of endpoints with a fixed quota
type Pacer struct {
	limiter *rate.Limiter
	now     func() time.Time
	sleep   SleepFunc
}

func NewPacer(perSecond float64, burst int) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

func (p *Pacer) WithSleep(sleep SleepFunc) *Pacer {
	p.sleep = sleep
	return p
}

func (p *Pacer) WithClock(now func() time.Time) *Pacer {
	p.now = now
	return p
}

// Wait reserves the next slot and sleeps until it opens
func (p *Pacer) Wait() time.Duration {
	now := p.now()
	reservation := p.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return 0
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		p.sleep(delay)
	}

	return delay
}
