package ratelimit

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"skillbridge/internal/errors"
)

const (
	headerLimit     = "X-RateLimit-Limit"
	headerRemaining = "X-RateLimit-Remaining"
	headerRetry     = "Retry-After"
)

// Limiter allows Max requests per client IP in each Window.
type Limiter struct {
	Name   string
	Max    int64
	Window time.Duration
	Store  Store
}

// Auth limits credential endpoints: 5 requests per 15 minutes.
func Auth(store Store) *Limiter {
	return &Limiter{Name: "auth", Max: 5, Window: 15 * time.Minute, Store: store}
}

// API limits every API route: 60 requests per minute.
func API(store Store) *Limiter {
	return &Limiter{Name: "api", Max: 60, Window: time.Minute, Store: store}
}

// Middleware enforces the limit. Store failures let the request through.
func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := l.Name + ":" + c.RealIP()
			count, resetIn, err := l.Store.Hit(c.Request().Context(), key, l.Window)
			if err != nil {
				log.Printf("rate limit %s: store unavailable, allowing request: %v", l.Name, err)
				return next(c)
			}

			remaining := l.Max - count
			if remaining < 0 {
				remaining = 0
			}
			h := c.Response().Header()
			h.Set(headerLimit, strconv.FormatInt(l.Max, 10))
			h.Set(headerRemaining, strconv.FormatInt(remaining, 10))

			if count > l.Max {
				retryAfter := int64(math.Ceil(resetIn.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				h.Set(headerRetry, strconv.FormatInt(retryAfter, 10))
				return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
					Error: "too many requests, please try again in " + strconv.FormatInt(retryAfter, 10) + " seconds",
					Code:  errors.ErrRateLimited.Code,
				})
			}
			return next(c)
		}
	}
}
