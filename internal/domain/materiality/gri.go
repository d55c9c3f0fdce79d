package materiality

import "github.com/okian/sema/internal/domain/types"

// builtinDisclosures maps well-known topic names to their GRI disclosures.
var builtinDisclosures = map[string]string{
	"Economic Performance":         "GRI 201-1",
	"GHG Emissions":                "GRI 305-1, 305-2",
	"Employment":                   "GRI 401-1",
	"Training and Education":       "GRI 404-1",
	"Occupational Health & Safety": "GRI 403-1",
	"Water Management":             "GRI 303-1",
	"Waste":                        "GRI 306-1",
	"Energy":                       "GRI 302-1",
	"Biodiversity":                 "GRI 304-1",
	"Anti-corruption":              "GRI 205-1",
	"Customer Privacy":             "GRI 418-1",
}

// Disclosures resolves topic names to GRI disclosure codes.
type Disclosures struct {
	codes map[string]string
}

// NewDisclosures returns the built-in table extended by extra. Entries in
// extra win over built-ins of the same name; empty codes are ignored.
func NewDisclosures(extra map[string]string) Disclosures {
	codes := make(map[string]string, len(builtinDisclosures)+len(extra))
	for name, code := range builtinDisclosures {
		codes[name] = code
	}
	for name, code := range extra {
		if code != "" {
			codes[name] = code
		}
	}
	return Disclosures{codes: codes}
}

// Lookup returns the disclosure for name, or the placeholder series of the
// category when the name is unknown.
func (d Disclosures) Lookup(name string, category types.TopicCategory) string {
	if code, ok := d.codes[name]; ok {
		return code
	}
	return Placeholder(category)
}

// Placeholder is the category-level code used for unmapped topics.
func Placeholder(category types.TopicCategory) string {
	switch category {
	case types.TopicEconomic:
		return "GRI 200-X"
	case types.TopicEnvironmental:
		return "GRI 300-X"
	default:
		return "GRI 400-X"
	}
}

// GRIDisclosure looks name up in the built-in table.
func GRIDisclosure(name string, category types.TopicCategory) string {
	return NewDisclosures(nil).Lookup(name, category)
}
