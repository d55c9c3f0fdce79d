// Package scoring derives stakeholder priority and internal topic
// significance from raw ratings. Every function is a full recompute.
package scoring

import (
	"github.com/okian/sema/internal/domain/model"
	"github.com/okian/sema/internal/domain/types"
)

// Stakeholder scoring thresholds.
const (
	maxTotalScore      = 30
	highInfluenceMin   = 0.7
	mediumInfluenceMin = 0.4
	priorityMinScore   = 16
)

// Ratings are the six 1..5 dependency and influence ratings of a stakeholder.
type Ratings struct {
	DependencyEconomic      int
	DependencySocial        int
	DependencyEnvironmental int
	InfluenceEconomic       int
	InfluenceSocial         int
	InfluenceEnvironmental  int
}

// RatingsOf extracts the ratings of a stakeholder record.
func RatingsOf(s model.Stakeholder) Ratings {
	return Ratings{
		DependencyEconomic:      s.DependencyEconomic,
		DependencySocial:        s.DependencySocial,
		DependencyEnvironmental: s.DependencyEnvironmental,
		InfluenceEconomic:       s.InfluenceEconomic,
		InfluenceSocial:         s.InfluenceSocial,
		InfluenceEnvironmental:  s.InfluenceEnvironmental,
	}
}

// All returns the ratings in a fixed order.
func (r Ratings) All() [6]int {
	return [6]int{
		r.DependencyEconomic, r.DependencySocial, r.DependencyEnvironmental,
		r.InfluenceEconomic, r.InfluenceSocial, r.InfluenceEnvironmental,
	}
}

// StakeholderScore holds the fields derived from Ratings.
type StakeholderScore struct {
	TotalScore        int
	NormalizedScore   float64
	InfluenceCategory types.InfluenceCategory
	Priority          bool
}

// ScoreStakeholder sums the ratings and classifies the stakeholder.
func ScoreStakeholder(r Ratings) StakeholderScore {
	total := 0
	for _, v := range r.All() {
		total += v
	}
	normalized := float64(total) / maxTotalScore
	return StakeholderScore{
		TotalScore:        total,
		NormalizedScore:   normalized,
		InfluenceCategory: InfluenceFor(normalized),
		Priority:          total >= priorityMinScore,
	}
}

// InfluenceFor maps a normalized score to its tier. Ties go to the higher tier.
func InfluenceFor(normalized float64) types.InfluenceCategory {
	switch {
	case normalized >= highInfluenceMin:
		return types.InfluenceHigh
	case normalized >= mediumInfluenceMin:
		return types.InfluenceMedium
	default:
		return types.InfluenceLow
	}
}

// Apply returns s with every derived field recomputed from its ratings.
func Apply(s model.Stakeholder) model.Stakeholder {
	score := ScoreStakeholder(RatingsOf(s))
	s.TotalScore = score.TotalScore
	s.NormalizedScore = score.NormalizedScore
	s.InfluenceCategory = score.InfluenceCategory
	s.Priority = score.Priority
	return s
}
