// Package feedback aggregates questionnaire responses into per-topic
// external scores.
package feedback

import (
	"sort"

	"github.com/okian/sema/internal/domain/model"
)

// materialAverage is the external materiality threshold on the 0..10 scale.
const materialAverage = 7.0

// TopicScore is the aggregate of all responses recorded for one topic.
type TopicScore struct {
	AverageScore  float64
	ResponseCount int
	IsMaterial    bool
}

// Aggregate averages every score recorded for topicID. Responses that do not
// mention the topic are skipped; with no scores the average is 0.
func Aggregate(topicID string, responses []model.StakeholderResponse) TopicScore {
	sum, count := 0, 0
	for _, r := range responses {
		score, ok := r.Responses[topicID]
		if !ok {
			continue
		}
		sum += score
		count++
	}
	if count == 0 {
		return TopicScore{}
	}
	avg := float64(sum) / float64(count)
	return TopicScore{
		AverageScore:  avg,
		ResponseCount: count,
		IsMaterial:    IsMaterial(avg),
	}
}

// IsMaterial applies the external materiality threshold.
func IsMaterial(averageScore float64) bool {
	return averageScore >= materialAverage
}

// Recompute returns a copy of topics with averageScore, responseCount and
// isMaterial rebuilt from responses.
func Recompute(topics []model.MaterialTopic, responses []model.StakeholderResponse) []model.MaterialTopic {
	out := make([]model.MaterialTopic, len(topics))
	for i, t := range topics {
		score := Aggregate(t.ID, responses)
		t.AverageScore = score.AverageScore
		t.ResponseCount = score.ResponseCount
		t.IsMaterial = score.IsMaterial
		out[i] = t
	}
	return out
}

// Summary are the headline figures of the questionnaire module.
type Summary struct {
	TotalTopics    int `json:"totalTopics"`
	MaterialTopics int `json:"materialTopics"`
	Responses      int `json:"responses"`
}

// Summarize counts topics, material topics and responses.
func Summarize(topics []model.MaterialTopic, responses []model.StakeholderResponse) Summary {
	s := Summary{TotalTopics: len(topics), Responses: len(responses)}
	for _, t := range topics {
		if t.IsMaterial {
			s.MaterialTopics++
		}
	}
	return s
}

// GroupCount is the number of responses received from one stakeholder group.
type GroupCount struct {
	StakeholderGroup string `json:"stakeholderGroup"`
	Responses        int    `json:"responses"`
}

// GroupCounts tallies responses per stakeholder group, sorted by group name.
func GroupCounts(responses []model.StakeholderResponse) []GroupCount {
	counts := make(map[string]int)
	for _, r := range responses {
		counts[r.StakeholderGroup]++
	}
	out := make([]GroupCount, 0, len(counts))
	for group, n := range counts {
		out = append(out, GroupCount{StakeholderGroup: group, Responses: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StakeholderGroup < out[j].StakeholderGroup })
	return out
}
