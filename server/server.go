package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/agentharness/logging"
	"github.com/hupe1980/agentharness/metrics"
	"github.com/hupe1980/agentharness/tool"
)

// DefaultMaxBodyBytes caps request payloads.
const DefaultMaxBodyBytes = 1 << 20

// Options configures the HTTP handler.
type Options struct {
	// Logger receives one line per request.
	Logger logging.Logger
	// Gatherer enables GET /metrics when set.
	Gatherer prometheus.Gatherer
	// HTTPMetrics records request counts and latencies when set.
	HTTPMetrics *metrics.HTTPMetrics
	// MaxBodyBytes caps request bodies (default DefaultMaxBodyBytes).
	MaxBodyBytes int64
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ErrorResponse is returned for transport-level failures.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type handler struct {
	reg          *tool.Registry
	logger       logging.Logger
	maxBodyBytes int64
}

// New builds the chi router serving reg.
func New(reg *tool.Registry, optFns ...func(o *Options)) http.Handler {
	opts := Options{
		Logger:       logging.NoOpLogger{},
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	h := &handler{reg: reg, logger: opts.Logger, maxBodyBytes: opts.MaxBodyBytes}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(opts.Logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(opts.Logger))
	if opts.HTTPMetrics != nil {
		r.Use(opts.HTTPMetrics.Middleware())
	}

	r.Get("/healthz", h.health)
	r.Route("/v1/tools", func(r chi.Router) {
		r.Get("/", h.listTools)
		r.Post("/{name}", h.dispatch)
	})
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listTools(w http.ResponseWriter, _ *http.Request) {
	tools := h.reg.Tools()
	out := make([]ToolInfo, len(tools))
	for i, t := range tools {
		out[i] = ToolInfo{Name: t.Name(), Description: t.Description(), Parameters: t.Parameters()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) dispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	payload, err := decodePayload(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.reg.Dispatch(r.Context(), name, payload))
}

// decodePayload reads a JSON object. An empty body is an empty payload.
func decodePayload(body io.Reader) (tool.Payload, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return tool.Payload{}, nil
	}

	var payload tool.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errors.New("payload must be a JSON object")
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered", "panic", fmt.Sprint(rvr), "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger emits one log line per request and propagates X-Request-ID.
func requestLogger(logger logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http_request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"latency", time.Since(start),
				"response_bytes", ww.BytesWritten(),
			)
		})
	}
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("HTTP server stopped gracefully")
	return nil
}
