package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/pkg/metrics"
)

const templatesKey = "sema_templates"

// TemplateCatalog stores questionnaire templates. A template without a
// client id is global and visible to every client.
type TemplateCatalog struct {
	mu    sync.Mutex
	kv    KV
	now   func() time.Time
	newID func() string
}

// NewTemplateCatalog returns a catalog backed by kv.
func NewTemplateCatalog(kv KV) *TemplateCatalog {
	return &TemplateCatalog{
		kv:    kv,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns the templates visible to clientID, newest first. An empty
// clientID lists every template.
func (c *TemplateCatalog) List(ctx context.Context, clientID string) ([]model.Template, error) {
	c.mu.Lock()
	all, err := c.load(ctx)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]model.Template, 0, len(all))
	for _, t := range all {
		if clientID == "" || t.ClientID == "" || t.ClientID == clientID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns one template or ErrNotFound.
func (c *TemplateCatalog) Get(ctx context.Context, id string) (model.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return model.Template{}, err
	}
	for _, t := range all {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
}

// Create stores a new template; its id and creation time are assigned here.
func (c *TemplateCatalog) Create(ctx context.Context, t model.Template) (model.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return model.Template{}, err
	}
	t.ID = c.newID()
	t.CreatedAt = c.now()
	t.UpdatedAt = time.Time{}
	if t.Topics == nil {
		t.Topics = []model.Topic{}
	}
	if err := c.persist(ctx, append(all, t)); err != nil {
		return model.Template{}, err
	}
	return t, nil
}

// Update replaces the name, topics and owner of a template.
func (c *TemplateCatalog) Update(ctx context.Context, id string, t model.Template) (model.Template, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return model.Template{}, err
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		all[i].Name = t.Name
		all[i].Topics = append([]model.Topic{}, t.Topics...)
		all[i].ClientID = t.ClientID
		all[i].UpdatedAt = c.now()
		if err := c.persist(ctx, all); err != nil {
			return model.Template{}, err
		}
		return all[i], nil
	}
	return model.Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
}

// Delete removes a template.
func (c *TemplateCatalog) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all, err := c.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.Template, 0, len(all))
	for _, t := range all {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(all) {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return c.persist(ctx, kept)
}

func (c *TemplateCatalog) load(ctx context.Context) ([]model.Template, error) {
	raw, err := c.kv.Get(ctx, templatesKey)
	if errors.Is(err, ErrNotFound) {
		return []model.Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	var all []model.Template
	if err := json.Unmarshal(raw, &all); err != nil {
		metrics.RecordCorruptRecord()
		return nil, fmt.Errorf("%w: templates: %v", ErrCorruptData, err)
	}
	return all, nil
}

func (c *TemplateCatalog) persist(ctx context.Context, all []model.Template) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode templates: %w", err)
	}
	if err := c.kv.Set(ctx, templatesKey, raw); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	metrics.UpdateTemplateCount(len(all))
	return nil
}
