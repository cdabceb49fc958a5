// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dalemusser/studentdash/internal/app/system/normalize"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key every duration.
// Expired windows are pruned lazily on Allow.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// Allow reports whether another request for key fits in its window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.prune(now)
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	return max(l.limit-w.count, 0)
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// prune drops expired windows. Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	for k, w := range l.windows {
		if now.After(w.expiresAt) {
			delete(l.windows, k)
		}
	}
}

// ClientIP extracts the client IP, preferring X-Forwarded-For and X-Real-IP
// over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts per client IP and per login ID.
type LoginLimiter struct {
	byIP      *Limiter
	byLoginID *Limiter
}

// NewLoginLimiter allows ipLimit attempts per IP per minute and
// accountLimit attempts per login ID every five minutes.
func NewLoginLimiter(ipLimit, accountLimit int) *LoginLimiter {
	return &LoginLimiter{
		byIP:      New(ipLimit, time.Minute),
		byLoginID: New(accountLimit, 5*time.Minute),
	}
}

// Check reports whether a sign-in attempt may proceed. When it may not, the
// returned message is safe to show to the user.
func (ll *LoginLimiter) Check(r *http.Request, loginID string) (bool, string) {
	if !ll.byIP.Allow(ClientIP(r)) {
		return false, "Too many sign-in attempts. Please wait a minute and try again."
	}
	if key := normalize.LoginID(loginID); key != "" && !ll.byLoginID.Allow(key) {
		return false, "Too many sign-in attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// Succeeded clears the login ID's window after a good sign-in.
func (ll *LoginLimiter) Succeeded(loginID string) {
	if key := normalize.LoginID(loginID); key != "" {
		ll.byLoginID.Reset(key)
	}
}
