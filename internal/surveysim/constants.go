package surveysim

// Score bounds of a questionnaire answer.
const (
	minScore = 0
	maxScore = 10
)

// answerRate is the share of topics a respondent scores, in percent.
const answerRate = 80

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100

// filePermission is used for the responses dump.
const filePermission = 0o600
const progressEvery = 100
