// File: /middleware/middleware.go
package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ErrorResponse is the body written by the middleware chain itself
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func abortWith(c *gin.Context, status int, err, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err, Message: message, Code: status})
}

// ErrorHandler answers requests whose handler attached an error with c.Error but wrote nothing
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, c.Errors.Last().Err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
			Code:    http.StatusInternalServerError,
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	idle    time.Duration
}

// limitFor converts a per-minute budget; zero or less disables limiting
func limitFor(requestsPerMinute int) rate.Limit {
	if requestsPerMinute <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(requestsPerMinute))
}

func NewRateLimiter(requestsPerMinute int, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limitFor(requestsPerMinute),
		burst:   burst,
		idle:    10 * time.Minute,
	}
}

// Allow spends one token for key and reports the tokens left afterwards
func (rl *RateLimiter) Allow(key string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = now

	allowed := cl.limiter.AllowN(now, 1)
	if rl.limit == rate.Inf {
		return allowed, rl.burst
	}
	remaining := int(cl.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Sweep forgets clients idle for longer than the idle window
func (rl *RateLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > rl.idle {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// RateLimit limits requests per client IP
func RateLimit(requestsPerMinute int, burst int) gin.HandlerFunc {
	limiter := NewRateLimiter(requestsPerMinute, burst)

	go func() {
		ticker := time.NewTicker(limiter.idle)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.Sweep(now)
		}
	}()

	return func(c *gin.Context) {
		now := time.Now()
		allowed, remaining := limiter.Allow(c.ClientIP(), now)

		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(now.Add(time.Minute).Unix(), 10))
		if !allowed {
			abortWith(c, http.StatusTooManyRequests, "Rate limit exceeded",
				fmt.Sprintf("Too many requests. Limit: %d requests per minute", requestsPerMinute))
			return
		}
		c.Next()
	}
}

// Action endpoints that may be posted without a body
var bodylessActions = []string{"/dismiss", "/complete", "/toggle"}

// ValidateJSON requires a JSON content type on requests that carry a payload
func ValidateJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodDelete, http.MethodOptions, http.MethodHead:
			c.Next()
			return
		}

		if c.Request.ContentLength <= 0 {
			for _, suffix := range bodylessActions {
				if strings.HasSuffix(c.Request.URL.Path, suffix) {
					c.Next()
					return
				}
			}
		}

		if !strings.Contains(c.GetHeader("Content-Type"), "application/json") {
			abortWith(c, http.StatusBadRequest, "Invalid content type",
				"Content-Type must be application/json; charset=utf-8")
			return
		}
		c.Next()
	}
}

// RequestLogger writes one line per request: [IP] METHOD PATH STATUS LATENCY USER
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		user := c.GetString("user_id")
		if user == "" {
			user = "-"
		}
		log.Printf("[%s] %s %s %d %v %s",
			c.ClientIP(), c.Request.Method, path, c.Writer.Status(), time.Since(start), user)
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// PaginationDefaults normalizes page and limit query values for list endpoints
func PaginationDefaults() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()

		if page, err := strconv.Atoi(query.Get("page")); err != nil || page < 1 {
			query.Set("page", "1")
		}

		limit, err := strconv.Atoi(query.Get("limit"))
		switch {
		case err != nil || limit < 1:
			query.Set("limit", strconv.Itoa(defaultPageSize))
		case limit > maxPageSize:
			query.Set("limit", strconv.Itoa(maxPageSize))
		}

		c.Request.URL.RawQuery = query.Encode()
		c.Next()
	}
}
