package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit is a per-client token bucket.  Clients are keyed by user when
// JWTAuth already ran and by remote IP otherwise.  A non-positive rate
// disables limiting.
func RateLimit(perSecond float64, burst int) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if burst < 1 {
		burst = 1
	}
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(perSecond), burst)
			limiters[key] = l
		}
		return l
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := limiterFor(rateKey(c))
			r := l.Reserve()
			if d := r.Delay(); d > 0 {
				r.Cancel()
				secs := int(math.Ceil(d.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"detail":      "rate limit exceeded",
					"retry_after": secs,
				})
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(burst))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(l.TokensAt(time.Now()))))
			return next(c)
		}
	}
}

func rateKey(c echo.Context) string {
	if id, ok := UserID(c); ok {
		return "user:" + strconv.FormatUint(id, 10)
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
