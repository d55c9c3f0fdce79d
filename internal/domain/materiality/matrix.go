// Package materiality combines the external and internal assessments into
// the materiality matrix and the final disclosure list.
package materiality

import (
	"math"

	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
)

// Materiality thresholds of the two assessment dimensions.
const (
	ExternalThreshold = 7.0
	InternalThreshold = 10

	maxExternalScore = 10.0
	maxInternalScore = 25.0
)

// Classify returns the quadrant for an external (0..10) and internal (0..25) score.
func Classify(external float64, internal int) types.Quadrant {
	extHigh := external >= ExternalThreshold
	intHigh := internal >= InternalThreshold
	switch {
	case extHigh && intHigh:
		return types.QuadrantHighHigh
	case extHigh:
		return types.QuadrantHighLow
	case intHigh:
		return types.QuadrantLowHigh
	default:
		return types.QuadrantLowLow
	}
}

// Compose merges both topic collections by exact, case-sensitive name.
// External topics come first in their original order; internal topics
// without an external counterpart are appended in theirs.
func Compose(external []model.MaterialTopic, internal []model.InternalTopic) []model.CombinedTopic {
	combined := make([]model.CombinedTopic, 0, len(external)+len(internal))
	byName := make(map[string]int, len(external))

	for _, t := range external {
		if _, seen := byName[t.Name]; !seen {
			byName[t.Name] = len(combined)
		}
		combined = append(combined, model.CombinedTopic{
			Name:          t.Name,
			Description:   t.Description,
			Category:      t.Category,
			ExternalScore: t.AverageScore,
			IsMaterial:    t.AverageScore >= ExternalThreshold,
			Quadrant:      Classify(t.AverageScore, 0),
		})
	}

	for _, t := range internal {
		if i, ok := byName[t.Name]; ok {
			c := &combined[i]
			c.InternalScore = t.Significance
			c.IsMaterial = c.ExternalScore >= ExternalThreshold || t.Significance >= InternalThreshold
			c.Quadrant = Classify(c.ExternalScore, t.Significance)
			continue
		}
		byName[t.Name] = len(combined)
		combined = append(combined, model.CombinedTopic{
			Name:          t.Name,
			Description:   t.Description,
			Category:      t.Category,
			InternalScore: t.Significance,
			IsMaterial:    t.Significance >= InternalThreshold,
			Quadrant:      Classify(0, t.Significance),
		})
	}
	return combined
}

// All selects every category in Filter.
const All = "All"

// Filter keeps topics of the given category; "All" or "" keeps everything.
func Filter(topics []model.CombinedTopic, category string) []model.CombinedTopic {
	if category == "" || category == All {
		return topics
	}
	out := make([]model.CombinedTopic, 0, len(topics))
	for _, t := range topics {
		if string(t.Category) == category {
			out = append(out, t)
		}
	}
	return out
}

// MatrixSummary are the headline figures of the matrix.
type MatrixSummary struct {
	Total    int `json:"total"`
	Material int `json:"material"`
	HighHigh int `json:"highHigh"`
}

// Summarize counts combined, material and high-high topics.
func Summarize(topics []model.CombinedTopic) MatrixSummary {
	s := MatrixSummary{Total: len(topics)}
	for _, t := range topics {
		if t.IsMaterial {
			s.Material++
		}
		if t.Quadrant == types.QuadrantHighHigh {
			s.HighHigh++
		}
	}
	return s
}

// Point is a plotted position in percent of the chart, origin top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position maps a topic onto the chart: external score along x, internal
// significance along y (higher is nearer the top), clamped to 5..95.
func Position(t model.CombinedTopic) Point {
	x := t.ExternalScore/maxExternalScore*90 + 5
	y := 100 - (float64(t.InternalScore)/maxInternalScore*90 + 5)
	return Point{X: clamp(x), Y: clamp(y)}
}

func clamp(v float64) float64 {
	return math.Max(5, math.Min(95, v))
}
