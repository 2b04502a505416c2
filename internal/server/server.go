package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/xpscale/internal/database"
	"github.com/osse101/xpscale/internal/eventlog"
	"github.com/osse101/xpscale/internal/handler"
	"github.com/osse101/xpscale/internal/logger"
	"github.com/osse101/xpscale/internal/metrics"
	"github.com/osse101/xpscale/internal/profile"
)

// Options carries the HTTP settings of a Server
type Options struct {
	Port            int
	APIKey          string
	TrustedProxies  []string
	MaxRequestBytes int64
	ServiceName     string
	Version         string
}

type Server struct {
	httpServer     *http.Server
	dbPool         database.Pool
	profileService profile.Service
}

// NewServer creates a new Server instance. dbPool may be nil when profiles
// are kept in memory, and eventLog nil when no audit trail is kept.
func NewServer(opts Options, dbPool database.Pool, profileService profile.Service, eventLog eventlog.Service) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, dbPool, profileService, eventLog),
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
		},
		dbPool:         dbPool,
		profileService: profileService,
	}
}

// NewRouter builds the routed middleware stack
func NewRouter(opts Options, dbPool database.Pool, profileService profile.Service, eventLog eventlog.Service) http.Handler {
	maxBytes := opts.MaxRequestBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBytes
	}

	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(opts.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(maxBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Get("/version", handler.HandleVersion(opts.ServiceName, opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	profiles := handler.NewProfileHandler(profileService)
	curves := handler.NewCurveHandler(profileService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/curve", func(r chi.Router) {
			r.Get("/", curves.HandleGetTable)
			r.Get("/{level}", curves.HandleGetRequirement)
		})

		r.Route("/profiles/{userID}", func(r chi.Router) {
			r.Get("/", profiles.HandleGetProgress)
			r.Get("/progress", profiles.HandleGetProgress)
			r.Post("/rewards", profiles.HandleAwardReward)
			r.Post("/deltas", profiles.HandleApplyDelta)
			r.Get("/level-ups", profiles.HandleGetLevelUps)
			r.Put("/snapshot", profiles.HandleImportSnapshot)

			if eventLog != nil {
				r.Get("/events", handler.NewEventLogHandler(eventLog).HandleGetUserEvents)
			}

			r.Route("/boosts", func(r chi.Router) {
				r.Get("/", profiles.HandleGetBoosts)
				r.Put("/{boostKey}", profiles.HandleSetBoostLevel)
			})
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func isProbePath(path string) bool {
	return strings.HasPrefix(path, "/healthz") ||
		strings.HasPrefix(path, "/readyz") ||
		strings.HasPrefix(path, "/metrics")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if isProbePath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops accepting requests, waits for in-flight ones, then flushes
// the profile service's pending events.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return s.profileService.Shutdown(ctx)
}
