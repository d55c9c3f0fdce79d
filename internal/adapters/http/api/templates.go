package api

import (
	"context"
	"net/http"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
)

// TemplateDependencies defines the questionnaire template operations.
type TemplateDependencies interface {
	ListTemplates(ctx context.Context, clientID string) ([]model.Template, error)
	GetTemplate(ctx context.Context, id string) (model.Template, error)
	CreateTemplate(ctx context.Context, in service.TemplateInput) (model.Template, error)
	UpdateTemplate(ctx context.Context, id string, in service.TemplateInput) (model.Template, error)
	DeleteTemplate(ctx context.Context, id string) error
	LoadTemplate(ctx context.Context, clientID, templateID string) ([]model.MaterialTopic, error)
}

// TemplatesHandler handles template requests.
type TemplatesHandler struct {
	deps TemplateDependencies
}

// NewTemplatesHandler creates a new templates handler.
func NewTemplatesHandler(deps TemplateDependencies) *TemplatesHandler {
	return &TemplatesHandler{deps: deps}
}

// HandleList handles GET /templates?clientId=.
func (h *TemplatesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ListTemplates(r.Context(), r.URL.Query().Get("clientId"))
	respond(w, r, "api.list_templates", http.StatusOK, v, err)
}

// HandleCreate handles POST /templates.
func (h *TemplatesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_template"
	var in service.TemplateInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.CreateTemplate(r.Context(), in)
	respond(w, r, op, http.StatusCreated, v, err)
}

// HandleGet handles GET /templates/{id}.
func (h *TemplatesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.GetTemplate(r.Context(), r.PathValue("id"))
	respond(w, r, "api.get_template", http.StatusOK, v, err)
}

// HandleUpdate handles PUT /templates/{id}.
func (h *TemplatesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_template"
	var in service.TemplateInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.UpdateTemplate(r.Context(), r.PathValue("id"), in)
	respond(w, r, op, http.StatusOK, v, err)
}

// HandleDelete handles DELETE /templates/{id}.
func (h *TemplatesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	respondEmpty(w, r, "api.delete_template", h.deps.DeleteTemplate(r.Context(), r.PathValue("id")))
}

// HandleLoad handles POST /clients/{id}/templates/{tid}/load.
func (h *TemplatesHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.LoadTemplate(r.Context(), r.PathValue("id"), r.PathValue("tid"))
	respond(w, r, "api.load_template", http.StatusOK, v, err)
}
