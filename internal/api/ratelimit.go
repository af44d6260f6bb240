package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// rateLimit is huma middleware that throttles an operation per client IP.
// Refused requests get 429 with Retry-After in whole seconds.
func (s *Server) rateLimit(ctx huma.Context, next func(huma.Context)) {
	if s.limiter == nil {
		next(ctx)
		return
	}

	key := clientFrom(ctx.Context()).IPAddress
	ok, wait := s.limiter.Check(key)
	if ok {
		next(ctx)
		return
	}

	retryAfter := max(int(math.Ceil(wait.Seconds())), 1)
	s.logger.Warn("rate limit exceeded",
		"ip", key,
		"path", ctx.URL().Path,
		"retry_after", retryAfter,
	)

	ctx.SetHeader("Retry-After", strconv.Itoa(retryAfter))
	_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
}

// throttled attaches rateLimit to an operation.
func (s *Server) throttled() huma.Middlewares {
	return huma.Middlewares{s.rateLimit}
}
