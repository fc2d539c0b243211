package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AgendaService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// Limiter решает, пропустить ли очередной запрос с ключом key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimitMetrics счетчик отклоненных запросов
type RateLimitMetrics interface {
	IncRateLimited(path string)
}

// Logger интерфейс логгера middleware
type Logger interface {
	Warn(format string, v ...interface{})
}

// RateLimit ограничивает число запросов с одного IP.
// Ошибка хранилища лимитов не блокирует запрос.
func RateLimit(limiter Limiter, trustProxy bool, metrics RateLimitMetrics, logger Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), clientKey(r, trustProxy))
			if err != nil {
				logger.Warn("RateLimit: limiter error, request allowed: %v", err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				metrics.IncRateLimited(routeTemplate(r))
				handlers.RespondTooManyRequests(w, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey IP клиента. За доверенным прокси берется последний адрес
// X-Forwarded-For: его дописывает сам прокси, левые элементы задает клиент.
func clientKey(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := lastForwardedHop(r.Header.Values("X-Forwarded-For")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func lastForwardedHop(values []string) string {
	for i := len(values) - 1; i >= 0; i-- {
		hops := strings.Split(values[i], ",")
		for j := len(hops) - 1; j >= 0; j-- {
			hop := strings.TrimSpace(hops[j])
			if hop == "" {
				continue
			}
			if addr, err := netip.ParseAddr(hop); err == nil {
				return addr.String()
			}
			return ""
		}
	}
	return ""
}

// RedisLimiter фиксированное окно в Redis, общее для всех экземпляров сервиса
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int64
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRedisLimiter создает лимитер: limit запросов за window на ключ
func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}

	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		count, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, fmt.Errorf("rate limit script: %w", err)
		}
	default:
		return false, fmt.Errorf("rate limit script: unexpected result type %T", res)
	}

	return count <= l.limit, nil
}

// LocalLimiter token bucket на ключ в памяти процесса.
// Используется, когда Redis не настроен.
type LocalLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter limit запросов за window, всплеск до limit
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &LocalLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		idleTTL:  2 * window,
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// evictIdle удаляет ключи, не обращавшиеся дольше idleTTL; не чаще раза в idleTTL
func (l *LocalLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
	l.lastGC = now
}
