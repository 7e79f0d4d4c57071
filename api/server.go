package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tranvictor/onchaincheck/logging"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, handler *Handler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", handler.GetInfo)
	mux.HandleFunc("/get_info", handler.GetInfo)
	mux.HandleFunc("GET /healthz", handler.Healthz)

	return &http.Server{
		Addr:         ":" + port,
		Handler:      withRequestLogging(logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// withRequestLogging attaches a logger carrying the request id to the request
// context and logs every completed request.
func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		log := logger.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(logging.WithLogger(r.Context(), log)))

		log.Info("request completed",
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
