package materiality

import (
	"fmt"

	"github.com/okian/sema/internal/domain/model"
)

// Resolve builds the final list of material topics for the report.
// External topics scoring at least 7 come first, joined by name with an
// internal topic of significance 10 or more when one exists. Internal-only
// material topics follow, skipping names the external pass already covered.
// Every qualifying topic yields its own record, so repeated names within one
// side are kept.
func Resolve(external []model.MaterialTopic, internal []model.InternalTopic, gri Disclosures) []model.FinalTopic {
	materialInternal := make(map[string]model.InternalTopic, len(internal))
	for _, t := range internal {
		if t.Significance < InternalThreshold {
			continue
		}
		if _, ok := materialInternal[t.Name]; !ok {
			materialInternal[t.Name] = t
		}
	}

	final := make([]model.FinalTopic, 0, len(external)+len(internal))
	fromExternal := make(map[string]struct{}, len(external))

	for _, t := range external {
		if t.AverageScore < ExternalThreshold {
			continue
		}
		fromExternal[t.Name] = struct{}{}

		ft := model.FinalTopic{
			ID:            t.ID,
			Name:          t.Name,
			Category:      t.Category,
			ExternalScore: t.AverageScore,
			Rationale:     fmt.Sprintf("High stakeholder interest (%.1f/10)", t.AverageScore),
			GRIDisclosure: gri.Lookup(t.Name, t.Category),
		}
		if it, ok := materialInternal[t.Name]; ok {
			ft.InternalScore = it.Significance
			if it.Rationale != "" {
				ft.Rationale = it.Rationale
			}
		}
		final = append(final, ft)
	}

	for _, t := range internal {
		if t.Significance < InternalThreshold {
			continue
		}
		if _, covered := fromExternal[t.Name]; covered {
			continue
		}

		rationale := t.Rationale
		if rationale == "" {
			rationale = fmt.Sprintf("High internal impact (%d/25)", t.Significance)
		}
		final = append(final, model.FinalTopic{
			ID:            t.ID,
			Name:          t.Name,
			Category:      t.Category,
			InternalScore: t.Significance,
			Rationale:     rationale,
			GRIDisclosure: gri.Lookup(t.Name, t.Category),
		})
	}
	return final
}
