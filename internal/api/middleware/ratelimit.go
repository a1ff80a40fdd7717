package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	limiterhttp "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
)

// NewRateLimit limits each client IP to perMinute requests per minute using
// an in-process store. Over-limit requests get a 429 JSON error.
//
// The key is the IP in r.RemoteAddr. X-Forwarded-For and X-Real-IP are never
// read here; rewriting RemoteAddr from them is the router's decision.
func NewRateLimit(perMinute int64) func(http.Handler) http.Handler {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  perMinute,
	}, limiter.WithTrustForwardHeader(false))

	mw := limiterhttp.NewMiddleware(instance,
		limiterhttp.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
		}),
		limiterhttp.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.FromContext(r.Context()).Error("rate limiter failed", slog.String("error", err.Error()))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
		}),
	)
	return mw.Handler
}
