// Package types contains the enumerations shared across the SEMA domain.
package types

// StakeholderCategory places a stakeholder inside or outside the organisation.
type StakeholderCategory string

const (
	StakeholderInternal StakeholderCategory = "Internal"
	StakeholderExternal StakeholderCategory = "External"
)

// Valid reports whether c is a known stakeholder category.
func (c StakeholderCategory) Valid() bool {
	return c == StakeholderInternal || c == StakeholderExternal
}

// InfluenceCategory is the tier derived from a stakeholder's normalized score.
type InfluenceCategory string

const (
	InfluenceHigh   InfluenceCategory = "High"
	InfluenceMedium InfluenceCategory = "Medium"
	InfluenceLow    InfluenceCategory = "Low"
)

// TopicCategory is the GRI pillar a topic belongs to.
type TopicCategory string

const (
	TopicEconomic      TopicCategory = "Economic"
	TopicEnvironmental TopicCategory = "Environmental"
	TopicSocial        TopicCategory = "Social"
)

// Valid reports whether c is one of the three GRI pillars.
func (c TopicCategory) Valid() bool {
	switch c {
	case TopicEconomic, TopicEnvironmental, TopicSocial:
		return true
	}
	return false
}

// Quadrant is a materiality-matrix bucket named external-internal.
type Quadrant string

const (
	QuadrantHighHigh Quadrant = "high-high"
	QuadrantHighLow  Quadrant = "high-low"
	QuadrantLowHigh  Quadrant = "low-high"
	QuadrantLowLow   Quadrant = "low-low"
)

// RiskBand is the display band of an internal significance score.
type RiskBand string

const (
	RiskHigh       RiskBand = "high"
	RiskMediumHigh RiskBand = "medium-high"
	RiskMedium     RiskBand = "medium"
	RiskLow        RiskBand = "low"
)

// ClientStatus marks whether a client is currently worked on.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Valid reports whether s is a known client status.
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

// StepState is the coarse state of a dashboard process module.
type StepState string

const (
	StepCompleted  StepState = "completed"
	StepInProgress StepState = "in-progress"
	StepPending    StepState = "pending"
)
