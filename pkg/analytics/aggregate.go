package analytics

import (
	"fmt"
	"sort"

	"cargo-chatbot-be/internal/entity"
)

const lowRelevanceThreshold = 0.3

// Summarize computes the trailing-period summary over the given interactions
func Summarize(interactions []*entity.Interaction, days int) *Summary {
	period := fmt.Sprintf("Last %d days", days)

	if len(interactions) == 0 {
		return &Summary{
			Period:            period,
			TotalInteractions: 0,
			Message:           "No interactions recorded in this period",
		}
	}

	total := len(interactions)
	var responseTimeSum int64
	assistanceCount := 0
	categoryCounts := make(map[string]int)

	for _, it := range interactions {
		responseTimeSum += it.ResponseTimeMs
		if it.HumanAssistanceRequired {
			assistanceCount++
		}
		categoryCounts[it.Category]++
	}

	return &Summary{
		Period:                    period,
		TotalInteractions:         total,
		AvgResponseTimeMs:         float64(responseTimeSum) / float64(total),
		HumanAssistancePercentage: float64(assistanceCount) / float64(total) * 100,
		CategoryCounts:            categoryCounts,
	}
}

// SessionStatsFor computes per-session statistics; interactions must all
// belong to the given session
func SessionStatsFor(sessionId string, interactions []*entity.Interaction) *SessionStats {
	stats := &SessionStats{
		SessionId:        sessionId,
		InteractionCount: len(interactions),
		Categories:       []string{},
	}
	if len(interactions) == 0 {
		return stats
	}

	var responseTimeSum int64
	seen := make(map[string]bool)
	first := interactions[0].CreatedAt
	last := interactions[0].CreatedAt

	for _, it := range interactions {
		responseTimeSum += it.ResponseTimeMs
		if it.HumanAssistanceRequired {
			stats.HasHumanAssistance = true
		}
		if !seen[it.Category] {
			seen[it.Category] = true
			stats.Categories = append(stats.Categories, it.Category)
		}
		if it.CreatedAt.Before(first) {
			first = it.CreatedAt
		}
		if it.CreatedAt.After(last) {
			last = it.CreatedAt
		}
	}

	stats.AvgResponseTimeMs = float64(responseTimeSum) / float64(len(interactions))
	stats.FirstInteraction = &first
	stats.LastInteraction = &last
	return stats
}

// Quality computes grounding and escalation metrics over the period
func Quality(interactions []*entity.Interaction, days int) *QualityMetrics {
	metrics := &QualityMetrics{
		Period:            fmt.Sprintf("Last %d days", days),
		TotalInteractions: len(interactions),
	}
	if len(interactions) == 0 {
		return metrics
	}

	var relevanceSum float64
	refined := 0
	assisted := 0

	for _, it := range interactions {
		relevanceSum += it.ContextRelevance
		if it.ContextRelevance < lowRelevanceThreshold {
			metrics.LowRelevanceCount++
		}
		if len(it.ContextSources) == 0 {
			metrics.NoContextCount++
		}
		if it.RefinementPerformed {
			refined++
		}
		if it.HumanAssistanceRequired {
			assisted++
		}
	}

	total := float64(len(interactions))
	metrics.AvgContextRelevance = relevanceSum / total
	metrics.RefinementRate = float64(refined) / total
	metrics.HumanAssistanceRate = float64(assisted) / total
	return metrics
}

// FollowUps analyzes how often sessions continue past the first question.
// Follow-up categories are counted from the second interaction of each
// session onward, limited to the top `limit` categories.
func FollowUps(interactions []*entity.Interaction, limit int) *FollowUpPatterns {
	if limit <= 0 {
		limit = 10
	}

	bySession := groupBySession(interactions)
	patterns := &FollowUpPatterns{
		TopCategories: []CategoryCount{},
	}
	if len(bySession) == 0 {
		return patterns
	}

	followUpCategories := make(map[string]int)
	totalTurns := 0

	for _, sessionInteractions := range bySession {
		totalTurns += len(sessionInteractions)
		if len(sessionInteractions) > 1 {
			patterns.MultiTurnSessions++
			for _, it := range sessionInteractions[1:] {
				followUpCategories[it.Category]++
			}
		} else {
			patterns.SingleTurnSessions++
		}
	}

	sessionCount := len(bySession)
	patterns.FollowUpRate = float64(patterns.MultiTurnSessions) / float64(sessionCount)
	patterns.AvgTurnsPerSession = float64(totalTurns) / float64(sessionCount)
	patterns.TopCategories = topCategories(followUpCategories, limit)
	return patterns
}

// Retain buckets session activity per day and counts sessions active on
// more than one day
func Retain(interactions []*entity.Interaction, days int) *Retention {
	retention := &Retention{
		Period:        fmt.Sprintf("Last %d days", days),
		DailyActivity: []DailyActivity{},
	}
	if len(interactions) == 0 {
		return retention
	}

	sessionDays := make(map[string]map[string]bool)
	for _, it := range interactions {
		day := it.CreatedAt.Format("2006-01-02")
		if sessionDays[it.SessionId] == nil {
			sessionDays[it.SessionId] = make(map[string]bool)
		}
		sessionDays[it.SessionId][day] = true
	}

	dailySessions := make(map[string]int)
	for _, daySet := range sessionDays {
		if len(daySet) > 1 {
			retention.ReturningSessions++
		}
		for day := range daySet {
			dailySessions[day]++
		}
	}

	retention.TotalSessions = len(sessionDays)
	retention.RetentionRate = float64(retention.ReturningSessions) / float64(retention.TotalSessions)

	dayKeys := make([]string, 0, len(dailySessions))
	for day := range dailySessions {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)
	for _, day := range dayKeys {
		retention.DailyActivity = append(retention.DailyActivity, DailyActivity{
			Date:     day,
			Sessions: dailySessions[day],
		})
	}
	return retention
}

// TopTopics ranks categories by interaction volume over the period
func TopTopics(interactions []*entity.Interaction, days, limit int) []TopicStats {
	if limit <= 0 {
		limit = 10
	}

	interactionCounts := make(map[string]int)
	sessionSets := make(map[string]map[string]bool)

	for _, it := range interactions {
		interactionCounts[it.Category]++
		if sessionSets[it.Category] == nil {
			sessionSets[it.Category] = make(map[string]bool)
		}
		sessionSets[it.Category][it.SessionId] = true
	}

	topics := make([]TopicStats, 0, len(interactionCounts))
	for category, count := range interactionCounts {
		topics = append(topics, TopicStats{
			Category:     category,
			Sessions:     len(sessionSets[category]),
			Interactions: count,
		})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Interactions != topics[j].Interactions {
			return topics[i].Interactions > topics[j].Interactions
		}
		return topics[i].Category < topics[j].Category
	})

	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

// windowBucketBounds mirrors the recommendation step function
var windowBucketBounds = []struct {
	label string
	max   int
}{
	{"short (<=3)", 3},
	{"medium (<=7)", 7},
	{"long (<=15)", 15},
	{"extended (>15)", 0},
}

// Windows relates conversation length buckets to escalation rates
func Windows(interactions []*entity.Interaction, days int) *WindowEffectiveness {
	analysis := &WindowEffectiveness{
		Period:  fmt.Sprintf("Last %d days", days),
		Buckets: []WindowBucket{},
	}

	type bucketAccum struct {
		sessions int
		assisted int
	}
	accums := make([]bucketAccum, len(windowBucketBounds))

	for _, sessionInteractions := range groupBySession(interactions) {
		count := len(sessionInteractions)
		assisted := false
		for _, it := range sessionInteractions {
			if it.HumanAssistanceRequired {
				assisted = true
				break
			}
		}

		idx := len(windowBucketBounds) - 1
		for i, bound := range windowBucketBounds {
			if bound.max > 0 && count <= bound.max {
				idx = i
				break
			}
		}
		accums[idx].sessions++
		if assisted {
			accums[idx].assisted++
		}
	}

	for i, bound := range windowBucketBounds {
		bucket := WindowBucket{
			Label:           bound.label,
			MaxInteractions: bound.max,
			Sessions:        accums[i].sessions,
		}
		if accums[i].sessions > 0 {
			bucket.HumanAssistanceRate = float64(accums[i].assisted) / float64(accums[i].sessions)
		}
		representative := bound.max
		if representative == 0 {
			representative = 16
		}
		bucket.RecommendedWindow = RecommendWindowSize(representative, false)
		analysis.Buckets = append(analysis.Buckets, bucket)
	}
	return analysis
}

// RecommendWindowSize maps a session's interaction count to a conversation
// window size, widened when the session ever needed human assistance
func RecommendWindowSize(interactionCount int, hasHumanAssistance bool) int {
	var recommended int
	switch {
	case interactionCount <= 3:
		recommended = 3
	case interactionCount <= 7:
		recommended = 5
	case interactionCount <= 15:
		recommended = 8
	default:
		recommended = 10
	}

	if hasHumanAssistance && recommended < 10 {
		recommended += 2
	}
	if recommended > 10 {
		recommended = 10
	}
	return recommended
}

func groupBySession(interactions []*entity.Interaction) map[string][]*entity.Interaction {
	bySession := make(map[string][]*entity.Interaction)
	for _, it := range interactions {
		bySession[it.SessionId] = append(bySession[it.SessionId], it)
	}
	return bySession
}

func topCategories(counts map[string]int, limit int) []CategoryCount {
	ranked := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		ranked = append(ranked, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
