// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/sema/pkg/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ClientDependencies
	AssessmentDependencies
	ReportDependencies
	TemplateDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	clientsHandler    *ClientsHandler
	assessmentHandler *AssessmentHandler
	reportsHandler    *ReportsHandler
	templatesHandler  *TemplatesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		clientsHandler:    NewClientsHandler(deps),
		assessmentHandler: NewAssessmentHandler(deps),
		reportsHandler:    NewReportsHandler(deps),
		templatesHandler:  NewTemplatesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	c := s.clientsHandler
	mux.HandleFunc("GET /clients", MetricsMiddleware(c.HandleList, "clients"))
	mux.HandleFunc("POST /clients", MetricsMiddleware(c.HandleAdd, "clients"))
	mux.HandleFunc("GET /clients/{id}", MetricsMiddleware(c.HandleGet, "client"))
	mux.HandleFunc("PATCH /clients/{id}", MetricsMiddleware(c.HandleUpdate, "client"))
	mux.HandleFunc("DELETE /clients/{id}", MetricsMiddleware(c.HandleDelete, "client"))
	mux.HandleFunc("GET /clients/{id}/data", MetricsMiddleware(c.HandleData, "client_data"))

	a := s.assessmentHandler
	mux.HandleFunc("GET /clients/{id}/stakeholders", MetricsMiddleware(a.HandleListStakeholders, "stakeholders"))
	mux.HandleFunc("POST /clients/{id}/stakeholders", MetricsMiddleware(a.HandleAddStakeholder, "stakeholders"))
	mux.HandleFunc("PUT /clients/{id}/stakeholders/{sid}", MetricsMiddleware(a.HandleUpdateStakeholder, "stakeholder"))
	mux.HandleFunc("DELETE /clients/{id}/stakeholders/{sid}", MetricsMiddleware(a.HandleDeleteStakeholder, "stakeholder"))
	mux.HandleFunc("GET /clients/{id}/internal-topics", MetricsMiddleware(a.HandleListInternalTopics, "internal_topics"))
	mux.HandleFunc("POST /clients/{id}/internal-topics", MetricsMiddleware(a.HandleAddInternalTopic, "internal_topics"))
	mux.HandleFunc("PUT /clients/{id}/internal-topics/{tid}", MetricsMiddleware(a.HandleUpdateInternalTopic, "internal_topic"))
	mux.HandleFunc("DELETE /clients/{id}/internal-topics/{tid}", MetricsMiddleware(a.HandleDeleteInternalTopic, "internal_topic"))
	mux.HandleFunc("GET /clients/{id}/material-topics", MetricsMiddleware(a.HandleListMaterialTopics, "material_topics"))
	mux.HandleFunc("POST /clients/{id}/material-topics", MetricsMiddleware(a.HandleAddMaterialTopic, "material_topics"))
	mux.HandleFunc("PUT /clients/{id}/material-topics/{tid}", MetricsMiddleware(a.HandleUpdateMaterialTopic, "material_topic"))
	mux.HandleFunc("DELETE /clients/{id}/material-topics/{tid}", MetricsMiddleware(a.HandleDeleteMaterialTopic, "material_topic"))
	mux.HandleFunc("GET /clients/{id}/responses", MetricsMiddleware(a.HandleListResponses, "responses"))
	mux.HandleFunc("POST /clients/{id}/responses", MetricsMiddleware(a.HandleSubmitResponse, "responses"))

	r := s.reportsHandler
	mux.HandleFunc("GET /clients/{id}/sample-size", MetricsMiddleware(r.HandleSampleSize, "sample_size"))
	mux.HandleFunc("PUT /clients/{id}/sample-size", MetricsMiddleware(r.HandleUpdateSampleSize, "sample_size"))
	mux.HandleFunc("GET /clients/{id}/risk-grid", MetricsMiddleware(r.HandleRiskGrid, "risk_grid"))
	mux.HandleFunc("GET /clients/{id}/matrix", MetricsMiddleware(r.HandleMatrix, "matrix"))
	mux.HandleFunc("GET /clients/{id}/report", MetricsMiddleware(r.HandleReport, "report"))
	mux.HandleFunc("GET /clients/{id}/dashboard", MetricsMiddleware(r.HandleDashboard, "dashboard"))

	t := s.templatesHandler
	mux.HandleFunc("GET /templates", MetricsMiddleware(t.HandleList, "templates"))
	mux.HandleFunc("POST /templates", MetricsMiddleware(t.HandleCreate, "templates"))
	mux.HandleFunc("GET /templates/{id}", MetricsMiddleware(t.HandleGet, "template"))
	mux.HandleFunc("PUT /templates/{id}", MetricsMiddleware(t.HandleUpdate, "template"))
	mux.HandleFunc("DELETE /templates/{id}", MetricsMiddleware(t.HandleDelete, "template"))
	mux.HandleFunc("POST /clients/{id}/templates/{tid}/load", MetricsMiddleware(t.HandleLoad, "template_load"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates a service error into its HTTP status.
func writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, Wrap(op, err))
}

// decodeJSON reads a single JSON document into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrBadRequest, err))
			return false
		}
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return false
	}
	return true
}
