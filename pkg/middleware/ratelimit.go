package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"venue-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. The client IP is the
// socket peer; X-Forwarded-For is read only when that peer is a trusted proxy.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	trusted  map[string]struct{}
	limit    rate.Limit
	burst    int
	idle     time.Duration
	log      *zap.Logger
}

func NewRateLimiter(perSecond float64, burst int, trustedProxies []string, log *zap.Logger) *RateLimiter {
	trusted := make(map[string]struct{}, len(trustedProxies))
	for _, p := range trustedProxies {
		trusted[strings.TrimSpace(p)] = struct{}{}
	}

	return &RateLimiter{
		visitors: make(map[string]*visitor),
		trusted:  trusted,
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     10 * time.Minute,
		log:      log.With(zap.String("middleware", "ratelimit")),
	}
}

func (rl *RateLimiter) get(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// prune
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, k)
		}
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (rl *RateLimiter) isTrusted(ip string) bool {
	_, ok := rl.trusted[ip]
	return ok
}

// clientIP walks X-Forwarded-For from the right and returns the first hop
// that is not a trusted proxy.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !rl.isTrusted(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop != "" && !rl.isTrusted(hop) {
			return hop
		}
	}
	return peer
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		if !rl.get(ip, time.Now()).Allow() {
			rl.log.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			utils.ResponseTooManyRequests(w, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
