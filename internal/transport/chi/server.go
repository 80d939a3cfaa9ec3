package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/travelql/internal/logger"
	gqltransport "github.com/kailas-cloud/travelql/internal/transport/graphql"
	healthuc "github.com/kailas-cloud/travelql/internal/usecase/health"
)

// Error codes of transport-level failures.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInternal        = "INTERNAL"
)

// Config controls the GraphQL endpoint.
type Config struct {
	Path     string
	Explorer bool
}

// Server serves the GraphQL endpoint and operational routes.
type Server struct {
	executor *gqltransport.Executor
	health   *healthuc.Service
	logger   *zap.Logger
	cfg      Config
}

// NewServer creates an HTTP server.
func NewServer(
	executor *gqltransport.Executor,
	health *healthuc.Service,
	logger *zap.Logger,
	cfg Config,
) *Server {
	if cfg.Path == "" {
		cfg.Path = "/graphql"
	}
	return &Server{executor: executor, health: health, logger: logger, cfg: cfg}
}

// GraphQL handles GET and POST on the GraphQL path.
// A browser GET without a query gets the explorer page when enabled.
func (s *Server) GraphQL(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Explorer && r.Method == http.MethodGet && r.URL.Query().Get("query") == "" && acceptsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := gqltransport.WriteExplorer(w, s.cfg.Path); err != nil {
			s.logger.Error("render explorer", zap.Error(err))
		}
		return
	}

	req, err := gqltransport.ParseRequest(r)
	if err != nil {
		msg := "invalid request"
		if errors.Is(err, gqltransport.ErrMissingQuery) {
			msg = err.Error()
		}
		logger.FromContext(r.Context()).Debug("bad graphql request", zap.Error(err))
		writeError(w, http.StatusBadRequest, CodeBadRequest, msg)
		return
	}

	result := s.executor.Execute(r.Context(), req)
	if result.HasErrors() {
		logger.FromContext(r.Context()).Debug("graphql errors",
			zap.String("operation", req.OperationName),
			zap.Int("count", len(result.Errors)),
		)
	}
	writeJSON(w, http.StatusOK, result)
}

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse mirrors the GraphQL error envelope so clients parse one shape.
type errorResponse struct {
	Errors []errorEntry `json:"errors"`
}

type errorEntry struct {
	Message    string            `json:"message"`
	Extensions map[string]string `json:"extensions"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Errors: []errorEntry{{Message: message, Extensions: map[string]string{"code": code}}},
	})
}
