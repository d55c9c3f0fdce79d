package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/pkg/metrics"
)

const dataKeyPrefix = "sema_data_"

// DataKey is the KV key of a client's bundle.
func DataKey(clientID string) string {
	return dataKeyPrefix + clientID
}

// Store is the single source of truth for client bundles. Every call names
// the client explicitly. The demo client is served from a fixed seed and
// never written.
type Store struct {
	mu     sync.Mutex
	kv     KV
	demoID string
	seed   *model.ClientData
}

// NewStore returns a Store backed by kv.
func NewStore(kv KV, opts ...Option) (*Store, error) {
	s := &Store{kv: kv, demoID: DefaultDemoClientID}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == nil {
		seed, err := DemoSeed()
		if err != nil {
			return nil, err
		}
		s.seed = &seed
	}
	return s, nil
}

// DemoClientID returns the reserved demo client id.
func (s *Store) DemoClientID() string { return s.demoID }

// IsDemo reports whether clientID is the read-only demo client.
func (s *Store) IsDemo(clientID string) bool { return clientID == s.demoID }

// Load returns the client's bundle. A client without a stored bundle gets
// an empty one, which is persisted before returning.
func (s *Store) Load(ctx context.Context, clientID string) (model.ClientData, error) {
	if s.IsDemo(clientID) {
		return s.seed.Clone(), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, clientID)
}

// Save replaces the client's bundle. Saving the demo client is a no-op.
func (s *Store) Save(ctx context.Context, clientID string, data model.ClientData) error {
	if s.IsDemo(clientID) {
		metrics.RecordDemoWriteDiscarded()
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, clientID, data)
}

// InitEmpty stores and returns an empty bundle for the client.
func (s *Store) InitEmpty(ctx context.Context, clientID string) (model.ClientData, error) {
	if s.IsDemo(clientID) {
		return s.seed.Clone(), nil
	}
	data := model.EmptyClientData()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(ctx, clientID, data); err != nil {
		return model.ClientData{}, err
	}
	return data, nil
}

// Clear removes all persisted state of the client. Clearing the demo
// client is a no-op.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if s.IsDemo(clientID) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	if err := s.kv.Delete(ctx, DataKey(clientID)); err != nil {
		observe("clear", "error", start)
		return fmt.Errorf("clear %s: %w", clientID, err)
	}
	observe("clear", "ok", start)
	return nil
}

// Update loads the bundle, applies fn and persists the result as one
// atomic step. If fn fails nothing is written. For the demo client fn runs
// against a scratch copy so its errors still surface, but the returned
// bundle is the unchanged seed.
func (s *Store) Update(ctx context.Context, clientID string, fn func(*model.ClientData) error) (model.ClientData, error) {
	if s.IsDemo(clientID) {
		scratch := s.seed.Clone()
		if err := fn(&scratch); err != nil {
			return model.ClientData{}, err
		}
		metrics.RecordDemoWriteDiscarded()
		return s.seed.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(ctx, clientID)
	if err != nil {
		return model.ClientData{}, err
	}
	if err := fn(&data); err != nil {
		return model.ClientData{}, err
	}
	data = normalize(data)
	if err := s.save(ctx, clientID, data); err != nil {
		return model.ClientData{}, err
	}
	return data.Clone(), nil
}

// UpdateStakeholders replaces the stakeholder collection.
func (s *Store) UpdateStakeholders(ctx context.Context, clientID string, v []model.Stakeholder) (model.ClientData, error) {
	return s.Update(ctx, clientID, func(d *model.ClientData) error {
		d.Stakeholders = append([]model.Stakeholder{}, v...)
		return nil
	})
}

// UpdateInternalTopics replaces the internal topic collection.
func (s *Store) UpdateInternalTopics(ctx context.Context, clientID string, v []model.InternalTopic) (model.ClientData, error) {
	return s.Update(ctx, clientID, func(d *model.ClientData) error {
		d.InternalTopics = append([]model.InternalTopic{}, v...)
		return nil
	})
}

// UpdateMaterialTopics replaces the external topic collection.
func (s *Store) UpdateMaterialTopics(ctx context.Context, clientID string, v []model.MaterialTopic) (model.ClientData, error) {
	return s.Update(ctx, clientID, func(d *model.ClientData) error {
		d.MaterialTopics = append([]model.MaterialTopic{}, v...)
		return nil
	})
}

// UpdateResponses replaces the response collection.
func (s *Store) UpdateResponses(ctx context.Context, clientID string, v []model.StakeholderResponse) (model.ClientData, error) {
	return s.Update(ctx, clientID, func(d *model.ClientData) error {
		d.Responses = model.ClientData{Responses: v}.Clone().Responses
		return nil
	})
}

// UpdateSampleSizeParams replaces the sampling parameters.
func (s *Store) UpdateSampleSizeParams(ctx context.Context, clientID string, v model.SampleSizeParameters) (model.ClientData, error) {
	return s.Update(ctx, clientID, func(d *model.ClientData) error {
		d.SampleSizeParams = v
		return nil
	})
}

// load must be called with s.mu held.
func (s *Store) load(ctx context.Context, clientID string) (model.ClientData, error) {
	start := time.Now()
	raw, err := s.kv.Get(ctx, DataKey(clientID))
	if errors.Is(err, ErrNotFound) {
		observe("load", "miss", start)
		data := model.EmptyClientData()
		if err := s.save(ctx, clientID, data); err != nil {
			return model.ClientData{}, err
		}
		return data, nil
	}
	if err != nil {
		observe("load", "error", start)
		return model.ClientData{}, fmt.Errorf("load %s: %w", clientID, err)
	}

	var data model.ClientData
	if err := json.Unmarshal(raw, &data); err != nil {
		observe("load", "error", start)
		metrics.RecordCorruptRecord()
		return model.ClientData{}, fmt.Errorf("%w: client %s: %v", ErrCorruptData, clientID, err)
	}
	observe("load", "ok", start)
	return normalize(data), nil
}

// save must be called with s.mu held.
func (s *Store) save(ctx context.Context, clientID string, data model.ClientData) error {
	start := time.Now()
	raw, err := json.Marshal(normalize(data))
	if err != nil {
		observe("save", "error", start)
		return fmt.Errorf("encode %s: %w", clientID, err)
	}
	if err := s.kv.Set(ctx, DataKey(clientID), raw); err != nil {
		observe("save", "error", start)
		return fmt.Errorf("save %s: %w", clientID, err)
	}
	observe("save", "ok", start)
	return nil
}

// normalize replaces nil collections with empty ones so bundles always
// encode as arrays.
func normalize(d model.ClientData) model.ClientData {
	if d.Stakeholders == nil {
		d.Stakeholders = []model.Stakeholder{}
	}
	if d.InternalTopics == nil {
		d.InternalTopics = []model.InternalTopic{}
	}
	if d.MaterialTopics == nil {
		d.MaterialTopics = []model.MaterialTopic{}
	}
	if d.Responses == nil {
		d.Responses = []model.StakeholderResponse{}
	}
	return d
}

func observe(op, result string, start time.Time) {
	metrics.RecordStoreOperation(op, result, float64(time.Since(start).Microseconds())/1000)
}
