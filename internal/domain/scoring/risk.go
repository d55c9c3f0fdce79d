package scoring

import (
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
)

// Internal risk thresholds on the 1..25 significance scale.
const (
	materialSignificance = 10
	mediumHighMin        = 15
	highRiskMin          = 20
	gridSize             = 5
)

// RiskScore holds the fields derived from severity and likelihood.
type RiskScore struct {
	Significance int
	IsMaterial   bool
}

// ScoreInternalTopic multiplies severity by likelihood and applies the
// materiality threshold.
func ScoreInternalTopic(severity, likelihood int) RiskScore {
	significance := severity * likelihood
	return RiskScore{
		Significance: significance,
		IsMaterial:   significance >= materialSignificance,
	}
}

// ApplyRisk returns t with significance and materiality recomputed.
func ApplyRisk(t model.InternalTopic) model.InternalTopic {
	score := ScoreInternalTopic(t.Severity, t.Likelihood)
	t.Significance = score.Significance
	t.IsMaterial = score.IsMaterial
	return t
}

// BandFor returns the display band of a significance score.
func BandFor(significance int) types.RiskBand {
	switch {
	case significance >= highRiskMin:
		return types.RiskHigh
	case significance >= mediumHighMin:
		return types.RiskMediumHigh
	case significance >= materialSignificance:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

// RiskCell is one severity×likelihood cell of the risk grid.
type RiskCell struct {
	Severity     int                   `json:"severity"`
	Likelihood   int                   `json:"likelihood"`
	Significance int                   `json:"significance"`
	Band         types.RiskBand        `json:"band"`
	Topics       []model.InternalTopic `json:"topics"`
}

// RiskGrid is a 5×5 grid. Rows run from severity 5 down to 1 and columns
// from likelihood 1 up to 5, matching the plotted orientation.
type RiskGrid struct {
	Rows [gridSize][gridSize]RiskCell `json:"rows"`
}

// Cell returns the cell for a severity and likelihood in 1..5.
func (g *RiskGrid) Cell(severity, likelihood int) RiskCell {
	return g.Rows[gridSize-severity][likelihood-1]
}

// BuildRiskGrid places every topic into the cell matching its exact
// severity and likelihood. Topics outside 1..5 are left out.
func BuildRiskGrid(topics []model.InternalTopic) RiskGrid {
	var g RiskGrid
	for row := 0; row < gridSize; row++ {
		severity := gridSize - row
		for col := 0; col < gridSize; col++ {
			likelihood := col + 1
			significance := severity * likelihood
			g.Rows[row][col] = RiskCell{
				Severity:     severity,
				Likelihood:   likelihood,
				Significance: significance,
				Band:         BandFor(significance),
				Topics:       []model.InternalTopic{},
			}
		}
	}
	for _, t := range topics {
		if t.Severity < 1 || t.Severity > gridSize || t.Likelihood < 1 || t.Likelihood > gridSize {
			continue
		}
		cell := &g.Rows[gridSize-t.Severity][t.Likelihood-1]
		cell.Topics = append(cell.Topics, t)
	}
	return g
}

// RiskSummary are the headline figures of an internal assessment.
type RiskSummary struct {
	Total               int     `json:"total"`
	Material            int     `json:"material"`
	HighRisk            int     `json:"highRisk"`
	AverageSignificance float64 `json:"averageSignificance"`
}

// Summarize computes the headline figures; the average of no topics is 0.
func Summarize(topics []model.InternalTopic) RiskSummary {
	s := RiskSummary{Total: len(topics)}
	sum := 0
	for _, t := range topics {
		if t.IsMaterial {
			s.Material++
		}
		if t.Significance >= highRiskMin {
			s.HighRisk++
		}
		sum += t.Significance
	}
	if len(topics) > 0 {
		s.AverageSignificance = float64(sum) / float64(len(topics))
	}
	return s
}
