package statistics

import (
	"math"

	"github.com/okian/sema/internal/domain/model"
)

// PlanRow is the sampling requirement of one stakeholder group.
type PlanRow struct {
	StakeholderID       string  `json:"stakeholderId"`
	Name                string  `json:"name"`
	Priority            bool    `json:"priority"`
	Population          int     `json:"population"`
	UseFinitePopulation bool    `json:"useFinitePopulation"`
	SampleSize          int     `json:"sampleSize"`
	SamplingRate        float64 `json:"samplingRate"` // percent of the population, one decimal
}

// Plan aggregates the per-stakeholder sampling requirements.
type Plan struct {
	Rows            []PlanRow `json:"rows"`
	TotalPopulation int       `json:"totalPopulation"`
	TotalSample     int       `json:"totalSample"`
	PriorityGroups  int       `json:"priorityGroups"`
}

// BuildPlan sizes every stakeholder group independently.
func BuildPlan(params model.SampleSizeParameters, stakeholders []model.Stakeholder) Plan {
	plan := Plan{Rows: make([]PlanRow, 0, len(stakeholders))}
	for _, s := range stakeholders {
		size := ForStakeholder(params, s.Population, s.UseFinitePopulation)
		row := PlanRow{
			StakeholderID:       s.ID,
			Name:                s.Name,
			Priority:            s.Priority,
			Population:          s.Population,
			UseFinitePopulation: s.UseFinitePopulation,
			SampleSize:          size,
		}
		if s.Population > 0 {
			row.SamplingRate = math.Round(float64(size)/float64(s.Population)*percent*10) / 10
			plan.TotalPopulation += s.Population
		}
		plan.TotalSample += size
		if s.Priority {
			plan.PriorityGroups++
		}
		plan.Rows = append(plan.Rows, row)
	}
	return plan
}
