package middleware

import (
	"sync"
	"time"

	"campusfind/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SubmitLimiter rate-limits item submissions per reporter so one roll number
// cannot flood the bulletin. Entries for idle reporters are dropped by a
// background cleanup loop.
type SubmitLimiter struct {
	ratePerMin int
	burst      int

	mu       sync.Mutex
	limiters map[string]*reporterLimiter

	stopCh chan struct{}
}

type reporterLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewSubmitLimiter(ratePerMin, burst int) *SubmitLimiter {
	sl := &SubmitLimiter{
		ratePerMin: ratePerMin,
		burst:      burst,
		limiters:   make(map[string]*reporterLimiter),
		stopCh:     make(chan struct{}),
	}

	go sl.cleanupLoop()

	return sl
}

func (sl *SubmitLimiter) Stop() {
	close(sl.stopCh)
}

// Middleware must run after AuthMiddleware so the roll number is set.
func (sl *SubmitLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rollNo := c.GetString("rollNo")
		if rollNo == "" {
			utils.UnauthorizedResponse(c, "No reporter identity established")
			c.Abort()
			return
		}

		if !sl.limiterFor(rollNo).Allow() {
			utils.TooManyRequestsResponse(c, "Too many submissions, please wait before posting again")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (sl *SubmitLimiter) limiterFor(rollNo string) *rate.Limiter {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if rl, ok := sl.limiters[rollNo]; ok {
		rl.lastAccess = time.Now()
		return rl.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(float64(sl.ratePerMin)/60.0), sl.burst)
	sl.limiters[rollNo] = &reporterLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}
	return limiter
}

func (sl *SubmitLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sl.cleanup(10 * time.Minute)
		case <-sl.stopCh:
			return
		}
	}
}

func (sl *SubmitLimiter) cleanup(ttl time.Duration) {
	now := time.Now()

	sl.mu.Lock()
	defer sl.mu.Unlock()
	for rollNo, rl := range sl.limiters {
		if now.Sub(rl.lastAccess) > ttl {
			delete(sl.limiters, rollNo)
		}
	}
}
