package business

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedUsers bounds the limiter map; it is reset when exceeded
const maxTrackedUsers = 10000

// throttle limits lookups per chat user. A nil throttle allows everything.
type throttle struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newThrottle(perMinute int) *throttle {
	if perMinute <= 0 {
		return nil
	}

	burst := perMinute / 4
	if burst < 1 {
		burst = 1
	}
	return &throttle{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (t *throttle) Allow(userID int64) bool {
	if t == nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	limiter, ok := t.limiters[userID]
	if !ok {
		if len(t.limiters) >= maxTrackedUsers {
			t.limiters = make(map[int64]*rate.Limiter)
		}
		limiter = rate.NewLimiter(t.limit, t.burst)
		t.limiters[userID] = limiter
	}
	return limiter.Allow()
}
