package middleware

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"order-desk/internal/model"
	"order-desk/internal/ratelimit"

	"github.com/rs/zerolog"
)

// RateLimit rejects a client with 429 once it exceeds limiter's budget.
// Clients are identified by clients.Key; a nil resolver keys on the remote host.
func RateLimit(limiter *ratelimit.Limiter, clients *ClientResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clients.Key(r)

			if !limiter.Allow(key) {
				retryAfter := limiter.RetryAfter(key)
				logger.Warn().
					Str("client", key).
					Str("path", r.URL.Path).
					Dur("retry_after", retryAfter).
					Str("request_id", RequestIDFromContext(r.Context())).
					Msg("rate limit exceeded")

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				writeError(w, r, http.StatusTooManyRequests, model.ErrCodeRateLimited, model.ErrRateLimited.Message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientResolver identifies the caller of a request.
// X-Forwarded-For is honoured only when the connection comes from a trusted proxy.
type ClientResolver struct {
	trusted []netip.Prefix
}

// NewClientResolver creates a resolver trusting X-Forwarded-For from the given networks.
func NewClientResolver(trusted []netip.Prefix) *ClientResolver {
	return &ClientResolver{trusted: trusted}
}

// Key returns the remote host, or, when the remote host is a trusted proxy,
// the right-most X-Forwarded-For hop that is not itself a trusted proxy.
func (c *ClientResolver) Key(r *http.Request) string {
	host := remoteHost(r)
	if c == nil || len(c.trusted) == 0 || !c.isTrusted(host) {
		return host
	}

	var hops []string
	for _, value := range r.Header.Values("X-Forwarded-For") {
		for _, hop := range strings.Split(value, ",") {
			hops = append(hops, strings.TrimSpace(hop))
		}
	}

	client := host
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(hops[i])
		if err != nil {
			return client
		}
		client = addr.Unmap().String()
		if !c.isTrusted(client) {
			return client
		}
	}

	return client
}

func (c *ClientResolver) isTrusted(host string) bool {
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()

	for _, prefix := range c.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
