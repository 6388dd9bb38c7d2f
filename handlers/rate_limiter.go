package handlers

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	globalLimiter    *rate.Limiter
	clientLimiters   = make(map[string]*rate.Limiter)
	clientLimitLock  = &sync.Mutex{}
	rateLimitEnabled bool
	limitStatistics  = make(map[string]int64)
	limitStatsLock   = &sync.RWMutex{}

	rateLimiterConfig = RateLimiterConfig{
		GlobalRate:  100,
		GlobalBurst: 200,
		ClientRate:  10,
		ClientBurst: 20,
	}
)

// RateLimiterConfig holds the token bucket parameters for the global and
// per-client limiters.
type RateLimiterConfig struct {
	Enabled     bool `json:"enabled"`
	GlobalRate  int  `json:"globalRate"`
	GlobalBurst int  `json:"globalBurst"`
	ClientRate  int  `json:"clientRate"`
	ClientBurst int  `json:"clientBurst"`
}

// InitRateLimiters reads the rate limit configuration from the
// environment and builds the global limiter. Disabled unless
// ENABLE_RATE_LIMIT=true.
func InitRateLimiters() {
	rateLimitEnabled = os.Getenv("ENABLE_RATE_LIMIT") == "true"

	if globalRateStr := os.Getenv("GLOBAL_RATE_LIMIT"); globalRateStr != "" {
		if r, err := strconv.Atoi(globalRateStr); err == nil && r > 0 {
			rateLimiterConfig.GlobalRate = r
			rateLimiterConfig.GlobalBurst = r * 2
		}
	}
	if clientRateStr := os.Getenv("USER_RATE_LIMIT"); clientRateStr != "" {
		if r, err := strconv.Atoi(clientRateStr); err == nil && r > 0 {
			rateLimiterConfig.ClientRate = r
			rateLimiterConfig.ClientBurst = r * 2
		}
	}
	rateLimiterConfig.Enabled = rateLimitEnabled

	if rateLimitEnabled {
		resetRateLimiters()
	}
}

func resetRateLimiters() {
	globalLimiter = rate.NewLimiter(rate.Limit(rateLimiterConfig.GlobalRate), rateLimiterConfig.GlobalBurst)

	clientLimitLock.Lock()
	clientLimiters = make(map[string]*rate.Limiter)
	clientLimitLock.Unlock()

	limitStatsLock.Lock()
	limitStatistics = map[string]int64{
		"total":    0,
		"allowed":  0,
		"rejected": 0,
	}
	limitStatsLock.Unlock()

	log.Printf("Rate limiters initialized: global=%d/s, per-client=%d/s",
		rateLimiterConfig.GlobalRate, rateLimiterConfig.ClientRate)
}

// clientLimiter returns the limiter for one client IP, creating it on
// first sight.
func clientLimiter(clientIP string) *rate.Limiter {
	clientLimitLock.Lock()
	defer clientLimitLock.Unlock()

	limiter, ok := clientLimiters[clientIP]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(rateLimiterConfig.ClientRate), rateLimiterConfig.ClientBurst)
		clientLimiters[clientIP] = limiter
	}
	return limiter
}

// RateLimitMiddleware enforces the global and per-client token buckets.
// Rejections carry a request id so a client report can be matched to the
// server log.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rateLimitEnabled || globalLimiter == nil {
			c.Next()
			return
		}

		limitStatsLock.Lock()
		limitStatistics["total"]++
		limitStatsLock.Unlock()

		if !globalLimiter.Allow() || !clientLimiter(c.ClientIP()).Allow() {
			requestID := uuid.New().String()
			log.Printf("Rate limit exceeded for %s (request_id=%s)", c.ClientIP(), requestID)

			limitStatsLock.Lock()
			limitStatistics["rejected"]++
			limitStatsLock.Unlock()

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests, please try again later",
				"request_id": requestID,
			})
			c.Abort()
			return
		}

		limitStatsLock.Lock()
		limitStatistics["allowed"]++
		limitStatsLock.Unlock()

		c.Next()
	}
}
