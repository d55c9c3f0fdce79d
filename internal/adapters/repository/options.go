package repository

import "github.com/okian/sema/internal/domain/model"

// DefaultDemoClientID is the reserved id of the read-only demo client.
const DefaultDemoClientID = "demo"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithDemoClientID overrides the reserved demo client id.
func WithDemoClientID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.demoID = id
		}
	}
}

// WithDemoData replaces the embedded demo dataset.
func WithDemoData(data model.ClientData) Option {
	return func(s *Store) {
		d := normalize(data.Clone())
		s.seed = &d
	}
}
