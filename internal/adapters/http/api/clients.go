package api

import (
	"context"
	"net/http"

	"github.com/okian/sema/internal/adapters/repository"
	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/model"
)

// ClientDependencies defines the client registry operations.
type ClientDependencies interface {
	ListClients(ctx context.Context) ([]model.Client, error)
	GetClient(ctx context.Context, id string) (model.Client, error)
	AddClient(ctx context.Context, in service.ClientInput) (model.Client, error)
	UpdateClient(ctx context.Context, id string, patch repository.ClientPatch) (model.Client, error)
	DeleteClient(ctx context.Context, id string) error
	ClientData(ctx context.Context, clientID string) (model.ClientData, error)
}

// ClientsHandler handles client requests.
type ClientsHandler struct {
	deps ClientDependencies
}

// NewClientsHandler creates a new clients handler.
func NewClientsHandler(deps ClientDependencies) *ClientsHandler {
	return &ClientsHandler{deps: deps}
}

// HandleList handles GET /clients.
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.deps.ListClients(r.Context())
	if err != nil {
		writeFailure(w, r, "api.list_clients", err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// HandleAdd handles POST /clients.
func (h *ClientsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_client"
	var in service.ClientInput
	if !decodeJSON(w, r, op, &in) {
		return
	}
	c, err := h.deps.AddClient(r.Context(), in)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleGet handles GET /clients/{id}.
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, r, "api.get_client", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleUpdate handles PATCH /clients/{id}.
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_client"
	var patch repository.ClientPatch
	if !decodeJSON(w, r, op, &patch) {
		return
	}
	c, err := h.deps.UpdateClient(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeFailure(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleDelete handles DELETE /clients/{id}. Deleting the demo client is a conflict.
func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, r, "api.delete_client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleData handles GET /clients/{id}/data.
func (h *ClientsHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	data, err := h.deps.ClientData(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, r, "api.client_data", err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}
