package httpapi

import (
	"net/http"

	"github.com/riskibarqy/mlb-schedule/internal/platform/id"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
)

type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string
	// Metrics is mounted at /metrics when set.
	Metrics            http.Handler
	Recorder           HTTPRecorder
	RequestIDs         id.Generator
	Logger             *logging.Logger
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.Metrics)
	registerScheduleRoutes(mux, handler)
	registerTeamRoutes(mux, handler)

	return RequestTracing(cfg.ServiceName,
		RequestID(cfg.RequestIDs,
			RequestLogging(logger, cfg.Recorder,
				CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
