package api

import (
	"context"
	"net/http"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
)

// ReportDependencies defines the read-only assessment views.
type ReportDependencies interface {
	SampleSize(ctx context.Context, clientID string) (service.SampleSizeView, error)
	UpdateSampleSize(ctx context.Context, clientID string, params model.SampleSizeParameters) (service.SampleSizeView, error)
	RiskGrid(ctx context.Context, clientID string) (service.RiskView, error)
	Matrix(ctx context.Context, clientID, category string) (service.MatrixView, error)
	Report(ctx context.Context, clientID string) (service.ReportView, error)
	Dashboard(ctx context.Context, clientID string) (service.DashboardView, error)
}

// ReportsHandler handles sampling, matrix and report requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleSampleSize handles GET /clients/{id}/sample-size.
func (h *ReportsHandler) HandleSampleSize(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.SampleSize(r.Context(), r.PathValue("id"))
	respond(w, r, "api.sample_size", http.StatusOK, v, err)
}

// HandleUpdateSampleSize handles PUT /clients/{id}/sample-size.
func (h *ReportsHandler) HandleUpdateSampleSize(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_sample_size"
	var params model.SampleSizeParameters
	if !decodeJSON(w, r, op, &params) {
		return
	}
	v, err := h.deps.UpdateSampleSize(r.Context(), r.PathValue("id"), params)
	respond(w, r, op, http.StatusOK, v, err)
}

// HandleRiskGrid handles GET /clients/{id}/risk-grid.
func (h *ReportsHandler) HandleRiskGrid(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.RiskGrid(r.Context(), r.PathValue("id"))
	respond(w, r, "api.risk_grid", http.StatusOK, v, err)
}

// HandleMatrix handles GET /clients/{id}/matrix?category=.
func (h *ReportsHandler) HandleMatrix(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Matrix(r.Context(), r.PathValue("id"), r.URL.Query().Get("category"))
	respond(w, r, "api.matrix", http.StatusOK, v, err)
}

// HandleReport handles GET /clients/{id}/report.
func (h *ReportsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Report(r.Context(), r.PathValue("id"))
	respond(w, r, "api.report", http.StatusOK, v, err)
}

// HandleDashboard handles GET /clients/{id}/dashboard.
func (h *ReportsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Dashboard(r.Context(), r.PathValue("id"))
	respond(w, r, "api.dashboard", http.StatusOK, v, err)
}
