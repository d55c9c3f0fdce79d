package repository

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/scoring"
)

//go:embed seed/demo.yaml
var demoSeed []byte

// DemoSeed decodes the embedded demo dataset. Derived stakeholder and
// internal topic fields are computed from the seeded ratings; external topic
// aggregates are kept as seeded.
func DemoSeed() (model.ClientData, error) {
	return decodeSeed(demoSeed)
}

func decodeSeed(raw []byte) (model.ClientData, error) {
	data := model.EmptyClientData()
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return model.ClientData{}, fmt.Errorf("decode demo seed: %w", err)
	}
	for i, s := range data.Stakeholders {
		data.Stakeholders[i] = scoring.Apply(s)
	}
	for i, t := range data.InternalTopics {
		data.InternalTopics[i] = scoring.ApplyRisk(t)
	}
	return normalize(data), nil
}
