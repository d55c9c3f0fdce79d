package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
	"github.com/okian/sema/pkg/metrics"
)

const clientsKey = "sema_clients"

// ClientPatch holds the client fields an update may change. Nil fields are
// left untouched.
type ClientPatch struct {
	Name        *string             `json:"name,omitempty"`
	Description *string             `json:"description,omitempty"`
	Industry    *string             `json:"industry,omitempty"`
	Logo        *string             `json:"logo,omitempty"`
	Status      *types.ClientStatus `json:"status,omitempty"`
}

// ClientRegistry persists the client list. The demo client is always listed.
type ClientRegistry struct {
	mu    sync.Mutex
	kv    KV
	store *Store
	demo  model.Client
	now   func() time.Time
	newID func() string
}

// NewClientRegistry returns a registry whose client bundles live in store.
func NewClientRegistry(kv KV, store *Store) *ClientRegistry {
	return &ClientRegistry{
		kv:    kv,
		store: store,
		demo: model.Client{
			ID:          store.DemoClientID(),
			Name:        "Demo Organization",
			Description: "Sample organization for demonstration purposes",
			Industry:    "Technology",
			IsDemo:      true,
			Status:      types.ClientActive,
			CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return "client_" + uuid.NewString() },
	}
}

// List returns every client, the demo client first unless stored elsewhere.
func (r *ClientRegistry) List(ctx context.Context) ([]model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(ctx)
}

// Get returns one client or ErrNotFound.
func (r *ClientRegistry) Get(ctx context.Context, id string) (model.Client, error) {
	clients, err := r.List(ctx)
	if err != nil {
		return model.Client{}, err
	}
	for _, c := range clients {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
}

// Add registers a new client and initializes its empty bundle. ID,
// CreatedAt and IsDemo are assigned here; an empty status means active.
func (r *ClientRegistry) Add(ctx context.Context, c model.Client) (model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.list(ctx)
	if err != nil {
		return model.Client{}, err
	}

	c.ID = r.newID()
	c.CreatedAt = r.now()
	c.IsDemo = false
	if c.Status == "" {
		c.Status = types.ClientActive
	}

	if _, err := r.store.InitEmpty(ctx, c.ID); err != nil {
		return model.Client{}, err
	}
	if err := r.persist(ctx, append(clients, c)); err != nil {
		return model.Client{}, err
	}
	return c, nil
}

// Update applies patch to the client and returns the result.
func (r *ClientRegistry) Update(ctx context.Context, id string, patch ClientPatch) (model.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.list(ctx)
	if err != nil {
		return model.Client{}, err
	}
	for i := range clients {
		if clients[i].ID != id {
			continue
		}
		c := &clients[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Industry != nil {
			c.Industry = *patch.Industry
		}
		if patch.Logo != nil {
			c.Logo = *patch.Logo
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		if err := r.persist(ctx, clients); err != nil {
			return model.Client{}, err
		}
		return *c, nil
	}
	return model.Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
}

// Delete removes a client and clears its bundle. The demo client cannot be
// deleted.
func (r *ClientRegistry) Delete(ctx context.Context, id string) error {
	if r.store.IsDemo(id) {
		return ErrDemoClient
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clients, err := r.list(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clients) {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}

	if err := r.persist(ctx, kept); err != nil {
		return err
	}
	return r.store.Clear(ctx, id)
}

// LoadData returns a registered client's bundle or ErrNotFound.
func (r *ClientRegistry) LoadData(ctx context.Context, id string) (model.ClientData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.require(ctx, id); err != nil {
		return model.ClientData{}, err
	}
	return r.store.Load(ctx, id)
}

// UpdateData runs store.Update for a registered client. Membership is checked
// under the registry lock, so a concurrent Delete cannot be undone by a write
// that recreates the bundle.
func (r *ClientRegistry) UpdateData(ctx context.Context, id string, fn func(*model.ClientData) error) (model.ClientData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.require(ctx, id); err != nil {
		return model.ClientData{}, err
	}
	return r.store.Update(ctx, id, fn)
}

// require must be called with r.mu held.
func (r *ClientRegistry) require(ctx context.Context, id string) error {
	clients, err := r.list(ctx)
	if err != nil {
		return err
	}
	for _, c := range clients {
		if c.ID == id {
			return nil
		}
	}
	return fmt.Errorf("client %s: %w", id, ErrNotFound)
}

func (r *ClientRegistry) list(ctx context.Context) ([]model.Client, error) {
	raw, err := r.kv.Get(ctx, clientsKey)
	if errors.Is(err, ErrNotFound) {
		return []model.Client{r.demo}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}

	var clients []model.Client
	if err := json.Unmarshal(raw, &clients); err != nil {
		metrics.RecordCorruptRecord()
		return nil, fmt.Errorf("%w: clients: %v", ErrCorruptData, err)
	}
	for _, c := range clients {
		if c.ID == r.demo.ID {
			return clients, nil
		}
	}
	return append([]model.Client{r.demo}, clients...), nil
}

func (r *ClientRegistry) persist(ctx context.Context, clients []model.Client) error {
	raw, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("encode clients: %w", err)
	}
	if err := r.kv.Set(ctx, clientsKey, raw); err != nil {
		return fmt.Errorf("save clients: %w", err)
	}
	metrics.UpdateClientCount(len(clients))
	return nil
}
