package surveysim

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/domain/types"
	"github.com/okian/sema/pkg/logger"
)

// catalogTopic is a questionnaire topic the simulator can create.
type catalogTopic struct {
	Name     string
	Category types.TopicCategory
	Interest int // mean score respondents give, 0..10
}

var topicCatalog = []catalogTopic{
	{"Economic Performance", types.TopicEconomic, 8},
	{"GHG Emissions", types.TopicEnvironmental, 8},
	{"Energy", types.TopicEnvironmental, 7},
	{"Water Management", types.TopicEnvironmental, 5},
	{"Waste", types.TopicEnvironmental, 6},
	{"Employment", types.TopicSocial, 7},
	{"Training and Education", types.TopicSocial, 6},
	{"Occupational Health & Safety", types.TopicSocial, 8},
	{"Anti-corruption", types.TopicEconomic, 5},
	{"Customer Privacy", types.TopicSocial, 4},
	{"Biodiversity", types.TopicEnvironmental, 3},
}

var stakeholderGroups = []string{"Employees", "Investors", "Customers", "Suppliers", "Community"}

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// generateQuestionnaires builds n submissions. topicIDs maps each catalog
// index to the id the service assigned.
func generateQuestionnaires(ctx context.Context, n int, topicIDs []string, stats *Stats) ([]service.ResponseInput, error) {
	logger.Get().Info(ctx, "generating questionnaires", logger.Int("count", n), logger.Int("topics", len(topicIDs)))

	out := make([]service.ResponseInput, n)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		out[i] = generateQuestionnaire(i, topicIDs)
	}

	stats.ResponsesGenerated = len(out)
	return out, nil
}

func generateQuestionnaire(index int, topicIDs []string) service.ResponseInput {
	q := service.ResponseInput{
		StakeholderGroup: stakeholderGroups[randomInt(len(stakeholderGroups))],
		RespondentName:   fmt.Sprintf("Respondent %d", index+1),
		Responses:        make(map[string]int, len(topicIDs)),
	}
	for i, id := range topicIDs {
		if randomInt(PercentageMultiplier) >= answerRate {
			continue
		}
		q.Responses[id] = scoreAround(topicCatalog[i].Interest)
	}
	return q
}

// scoreAround draws a score within two points of mean, clamped to 0..10.
func scoreAround(mean int) int {
	return min(max(mean+randomInt(5)-2, minScore), maxScore)
}
