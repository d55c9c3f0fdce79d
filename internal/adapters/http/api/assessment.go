package api

import (
	"context"
	"net/http"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
)

// AssessmentDependencies defines the stakeholder, topic and response operations.
type AssessmentDependencies interface {
	ListStakeholders(ctx context.Context, clientID string) ([]model.Stakeholder, error)
	AddStakeholder(ctx context.Context, clientID string, in service.StakeholderInput) (model.Stakeholder, error)
	UpdateStakeholder(ctx context.Context, clientID, id string, in service.StakeholderInput) (model.Stakeholder, error)
	DeleteStakeholder(ctx context.Context, clientID, id string) error

	ListInternalTopics(ctx context.Context, clientID string) ([]model.InternalTopic, error)
	AddInternalTopic(ctx context.Context, clientID string, in service.InternalTopicInput) (model.InternalTopic, error)
	UpdateInternalTopic(ctx context.Context, clientID, id string, in service.InternalTopicInput) (model.InternalTopic, error)
	DeleteInternalTopic(ctx context.Context, clientID, id string) error

	ListMaterialTopics(ctx context.Context, clientID string) ([]model.MaterialTopic, error)
	AddMaterialTopic(ctx context.Context, clientID string, in service.MaterialTopicInput) (model.MaterialTopic, error)
	UpdateMaterialTopic(ctx context.Context, clientID, id string, in service.MaterialTopicInput) (model.MaterialTopic, error)
	DeleteMaterialTopic(ctx context.Context, clientID, id string) error

	ListResponses(ctx context.Context, clientID string) ([]model.StakeholderResponse, error)
	SubmitResponse(ctx context.Context, clientID string, in service.ResponseInput) (model.StakeholderResponse, error)
}

// AssessmentHandler handles the per-client assessment collections.
type AssessmentHandler struct {
	deps AssessmentDependencies
}

// NewAssessmentHandler creates a new assessment handler.
func NewAssessmentHandler(deps AssessmentDependencies) *AssessmentHandler {
	return &AssessmentHandler{deps: deps}
}

// HandleListStakeholders handles GET /clients/{id}/stakeholders.
func (h *AssessmentHandler) HandleListStakeholders(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ListStakeholders(r.Context(), r.PathValue("id"))
	respond(w, r, "api.list_stakeholders", http.StatusOK, v, err)
}

// HandleAddStakeholder handles POST /clients/{id}/stakeholders.
func (h *AssessmentHandler) HandleAddStakeholder(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_stakeholder"
	var in service.StakeholderInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.AddStakeholder(r.Context(), r.PathValue("id"), in)
	respond(w, r, op, http.StatusCreated, v, err)
}

// HandleUpdateStakeholder handles PUT /clients/{id}/stakeholders/{sid}.
func (h *AssessmentHandler) HandleUpdateStakeholder(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_stakeholder"
	var in service.StakeholderInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.UpdateStakeholder(r.Context(), r.PathValue("id"), r.PathValue("sid"), in)
	respond(w, r, op, http.StatusOK, v, err)
}

// HandleDeleteStakeholder handles DELETE /clients/{id}/stakeholders/{sid}.
func (h *AssessmentHandler) HandleDeleteStakeholder(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteStakeholder(r.Context(), r.PathValue("id"), r.PathValue("sid"))
	respondEmpty(w, r, "api.delete_stakeholder", err)
}

// HandleListInternalTopics handles GET /clients/{id}/internal-topics.
func (h *AssessmentHandler) HandleListInternalTopics(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ListInternalTopics(r.Context(), r.PathValue("id"))
	respond(w, r, "api.list_internal_topics", http.StatusOK, v, err)
}

// HandleAddInternalTopic handles POST /clients/{id}/internal-topics.
func (h *AssessmentHandler) HandleAddInternalTopic(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_internal_topic"
	var in service.InternalTopicInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.AddInternalTopic(r.Context(), r.PathValue("id"), in)
	respond(w, r, op, http.StatusCreated, v, err)
}

// HandleUpdateInternalTopic handles PUT /clients/{id}/internal-topics/{tid}.
func (h *AssessmentHandler) HandleUpdateInternalTopic(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_internal_topic"
	var in service.InternalTopicInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.UpdateInternalTopic(r.Context(), r.PathValue("id"), r.PathValue("tid"), in)
	respond(w, r, op, http.StatusOK, v, err)
}

// HandleDeleteInternalTopic handles DELETE /clients/{id}/internal-topics/{tid}.
func (h *AssessmentHandler) HandleDeleteInternalTopic(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteInternalTopic(r.Context(), r.PathValue("id"), r.PathValue("tid"))
	respondEmpty(w, r, "api.delete_internal_topic", err)
}

// HandleListMaterialTopics handles GET /clients/{id}/material-topics.
func (h *AssessmentHandler) HandleListMaterialTopics(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ListMaterialTopics(r.Context(), r.PathValue("id"))
	respond(w, r, "api.list_material_topics", http.StatusOK, v, err)
}

// HandleAddMaterialTopic handles POST /clients/{id}/material-topics.
func (h *AssessmentHandler) HandleAddMaterialTopic(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_material_topic"
	var in service.MaterialTopicInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.AddMaterialTopic(r.Context(), r.PathValue("id"), in)
	respond(w, r, op, http.StatusCreated, v, err)
}

// HandleUpdateMaterialTopic handles PUT /clients/{id}/material-topics/{tid}.
func (h *AssessmentHandler) HandleUpdateMaterialTopic(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_material_topic"
	var in service.MaterialTopicInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.UpdateMaterialTopic(r.Context(), r.PathValue("id"), r.PathValue("tid"), in)
	respond(w, r, op, http.StatusOK, v, err)
}

// HandleDeleteMaterialTopic handles DELETE /clients/{id}/material-topics/{tid}.
func (h *AssessmentHandler) HandleDeleteMaterialTopic(w http.ResponseWriter, r *http.Request) {
	err := h.deps.DeleteMaterialTopic(r.Context(), r.PathValue("id"), r.PathValue("tid"))
	respondEmpty(w, r, "api.delete_material_topic", err)
}

// HandleListResponses handles GET /clients/{id}/responses.
func (h *AssessmentHandler) HandleListResponses(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ListResponses(r.Context(), r.PathValue("id"))
	respond(w, r, "api.list_responses", http.StatusOK, v, err)
}

// HandleSubmitResponse handles POST /clients/{id}/responses.
func (h *AssessmentHandler) HandleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_response"
	var in service.ResponseInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	v, err := h.deps.SubmitResponse(r.Context(), r.PathValue("id"), in)
	respond(w, r, op, http.StatusCreated, v, err)
}

func respond(w http.ResponseWriter, r *http.Request, op string, status int, v any, err error) {
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, status, v)
}

func respondEmpty(w http.ResponseWriter, r *http.Request, op string, err error) {
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
