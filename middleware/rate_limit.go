package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/bendiy/authnet-go/models"
)

type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Message  string
}

// DefaultRateLimit is the per-IP budget for the proxy. The gateway
// throttles merchants itself, so this only shields it from runaway
// clients.
var DefaultRateLimit = RateLimitConfig{
	Requests: 60,
	Window:   time.Minute,
	Message:  "Rate limit exceeded. Please slow down your requests.",
}

func NewRateLimiter(redisURL string, config RateLimitConfig) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL for rate limiter: %v", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %v", err)
	}

	return &RateLimiter{client: client, config: config}, nil
}

func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate_limit:%s", clientIP(r))

			allowed, remaining, resetTime, err := rl.check(r.Context(), key)
			if err != nil {
				// fail open, the gateway enforces its own limits
				log.Printf("Rate limit check error: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				log.Printf("Rate limit exceeded for %s", key)

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds()), 10))
				w.WriteHeader(http.StatusTooManyRequests)

				json.NewEncoder(w).Encode(models.ErrorResponse{
					Error: models.ErrorDetail{
						Type:    "rate_limit_error",
						Message: rl.config.Message,
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) check(ctx context.Context, key string) (allowed bool, remaining int, resetTime time.Time, err error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	windowEnd := windowStart.Add(rl.config.Window)

	luaScript := `
        local key = KEYS[1]
        local window_start = ARGV[1]
        local limit = tonumber(ARGV[2])
        local current_time = ARGV[3]

        redis.call('ZREMRANGEBYSCORE', key, 0, window_start - 1)

        local current_count = redis.call('ZCARD', key)

        if current_count < limit then
            redis.call('ZADD', key, current_time, current_time)
            redis.call('EXPIRE', key, 3600)
            return {1, limit - current_count - 1}
        else
            return {0, 0}
        end
    `

	result, err := rl.client.Eval(ctx, luaScript, []string{key},
		windowStart.UnixNano(), rl.config.Requests, now.UnixNano()).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	allowedInt, ok1 := resultSlice[0].(int64)
	remainingInt, ok2 := resultSlice[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, time.Time{}, fmt.Errorf("failed to parse redis result")
	}

	return allowedInt == 1, int(remainingInt), windowEnd, nil
}

func (rl *RateLimiter) Close() error {
	return rl.client.Close()
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
