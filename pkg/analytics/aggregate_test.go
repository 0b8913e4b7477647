package analytics

import (
	"testing"
	"time"

	"cargo-chatbot-be/internal/entity"
)

func interaction(sessionId, category string, mods ...func(*entity.Interaction)) *entity.Interaction {
	it := &entity.Interaction{
		SessionId:        sessionId,
		Category:         category,
		ContextRelevance: 0.8,
		ResponseTimeMs:   100,
		CreatedAt:        time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		ContextSources:   []string{"doc.md"},
	}
	for _, mod := range mods {
		mod(it)
	}
	return it
}

func withAssistance(it *entity.Interaction) { it.HumanAssistanceRequired = true }
func withRefinement(it *entity.Interaction) { it.RefinementPerformed = true }
func withNoSources(it *entity.Interaction)  { it.ContextSources = nil }
func onDay(day int) func(*entity.Interaction) {
	return func(it *entity.Interaction) {
		it.CreatedAt = time.Date(2026, 8, day, 10, 0, 0, 0, time.UTC)
	}
}

func TestRecommendWindowSize(t *testing.T) {
	tests := []struct {
		name          string
		count         int
		hasAssistance bool
		want          int
	}{
		{name: "short conversation", count: 2, want: 3},
		{name: "boundary at three", count: 3, want: 3},
		{name: "medium conversation", count: 4, want: 5},
		{name: "boundary at seven", count: 7, want: 5},
		{name: "long conversation", count: 9, want: 8},
		{name: "boundary at fifteen", count: 15, want: 8},
		{name: "extended conversation", count: 20, want: 10},
		{name: "assistance widens short", count: 2, hasAssistance: true, want: 5},
		{name: "assistance widens medium", count: 5, hasAssistance: true, want: 7},
		{name: "assistance capped on long", count: 9, hasAssistance: true, want: 10},
		{name: "assistance no-op on extended", count: 20, hasAssistance: true, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecommendWindowSize(tt.count, tt.hasAssistance)
			if got != tt.want {
				t.Errorf("RecommendWindowSize(%d, %v) = %d, want %d",
					tt.count, tt.hasAssistance, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Run("empty period", func(t *testing.T) {
		summary := Summarize(nil, 7)
		if summary.TotalInteractions != 0 {
			t.Errorf("total = %d, want 0", summary.TotalInteractions)
		}
		if summary.Message != "No interactions recorded in this period" {
			t.Errorf("unexpected message %q", summary.Message)
		}
		if summary.Period != "Last 7 days" {
			t.Errorf("period = %q, want %q", summary.Period, "Last 7 days")
		}
	})

	t.Run("aggregates counts and averages", func(t *testing.T) {
		interactions := []*entity.Interaction{
			interaction("s1", "Barley"),
			interaction("s1", "Barley", withAssistance),
			interaction("s2", "Rail Logistics", func(it *entity.Interaction) { it.ResponseTimeMs = 400 }),
			interaction("s3", "Barley"),
		}

		summary := Summarize(interactions, 7)

		if summary.TotalInteractions != 4 {
			t.Errorf("total = %d, want 4", summary.TotalInteractions)
		}
		if summary.AvgResponseTimeMs != 175 {
			t.Errorf("avg response time = %v, want 175", summary.AvgResponseTimeMs)
		}
		if summary.HumanAssistancePercentage != 25 {
			t.Errorf("assistance percentage = %v, want 25", summary.HumanAssistancePercentage)
		}
		if summary.CategoryCounts["Barley"] != 3 {
			t.Errorf("barley count = %d, want 3", summary.CategoryCounts["Barley"])
		}
		if summary.Message != "" {
			t.Errorf("message = %q, want empty", summary.Message)
		}
	})
}

func TestSessionStatsFor(t *testing.T) {
	t.Run("empty session", func(t *testing.T) {
		stats := SessionStatsFor("s1", nil)
		if stats.InteractionCount != 0 {
			t.Errorf("count = %d, want 0", stats.InteractionCount)
		}
		if stats.FirstInteraction != nil || stats.LastInteraction != nil {
			t.Error("expected nil interaction bounds for empty session")
		}
	})

	t.Run("aggregates one session", func(t *testing.T) {
		interactions := []*entity.Interaction{
			interaction("s1", "Barley", onDay(2)),
			interaction("s1", "Rail Logistics", onDay(1), withAssistance),
			interaction("s1", "Barley", onDay(3)),
		}

		stats := SessionStatsFor("s1", interactions)

		if stats.InteractionCount != 3 {
			t.Errorf("count = %d, want 3", stats.InteractionCount)
		}
		if !stats.HasHumanAssistance {
			t.Error("expected HasHumanAssistance")
		}
		if len(stats.Categories) != 2 {
			t.Errorf("categories = %v, want 2 distinct", stats.Categories)
		}
		if stats.FirstInteraction.Day() != 1 || stats.LastInteraction.Day() != 3 {
			t.Errorf("bounds = %v..%v, want day 1..3", stats.FirstInteraction, stats.LastInteraction)
		}
	})
}

func TestQuality(t *testing.T) {
	interactions := []*entity.Interaction{
		interaction("s1", "Barley"),
		interaction("s1", "Barley", withRefinement),
		interaction("s2", "Oats", withAssistance, withNoSources, func(it *entity.Interaction) {
			it.ContextRelevance = 0.1
		}),
		interaction("s3", "Peas", func(it *entity.Interaction) { it.ContextRelevance = 0.5 }),
	}

	metrics := Quality(interactions, 7)

	if metrics.LowRelevanceCount != 1 {
		t.Errorf("low relevance count = %d, want 1", metrics.LowRelevanceCount)
	}
	if metrics.NoContextCount != 1 {
		t.Errorf("no context count = %d, want 1", metrics.NoContextCount)
	}
	if metrics.RefinementRate != 0.25 {
		t.Errorf("refinement rate = %v, want 0.25", metrics.RefinementRate)
	}
	if metrics.HumanAssistanceRate != 0.25 {
		t.Errorf("assistance rate = %v, want 0.25", metrics.HumanAssistanceRate)
	}
	want := (0.8 + 0.8 + 0.1 + 0.5) / 4
	if metrics.AvgContextRelevance != want {
		t.Errorf("avg relevance = %v, want %v", metrics.AvgContextRelevance, want)
	}
}

func TestFollowUps(t *testing.T) {
	interactions := []*entity.Interaction{
		interaction("s1", "General"),
		interaction("s1", "Barley"),
		interaction("s1", "Barley"),
		interaction("s2", "Oats"),
		interaction("s3", "General"),
		interaction("s3", "Rail Logistics"),
	}

	patterns := FollowUps(interactions, 10)

	if patterns.MultiTurnSessions != 2 {
		t.Errorf("multi-turn sessions = %d, want 2", patterns.MultiTurnSessions)
	}
	if patterns.SingleTurnSessions != 1 {
		t.Errorf("single-turn sessions = %d, want 1", patterns.SingleTurnSessions)
	}
	if patterns.AvgTurnsPerSession != 2 {
		t.Errorf("avg turns = %v, want 2", patterns.AvgTurnsPerSession)
	}
	if len(patterns.TopCategories) == 0 || patterns.TopCategories[0].Category != "Barley" {
		t.Errorf("top follow-up categories = %v, want Barley first", patterns.TopCategories)
	}
	// First turns never count as follow-ups.
	for _, cc := range patterns.TopCategories {
		if cc.Category == "Oats" {
			t.Error("single-turn category must not appear in follow-ups")
		}
	}
}

func TestRetain(t *testing.T) {
	interactions := []*entity.Interaction{
		interaction("s1", "Barley", onDay(1)),
		interaction("s1", "Barley", onDay(2)),
		interaction("s2", "Oats", onDay(1)),
	}

	retention := Retain(interactions, 30)

	if retention.TotalSessions != 2 {
		t.Errorf("total sessions = %d, want 2", retention.TotalSessions)
	}
	if retention.ReturningSessions != 1 {
		t.Errorf("returning sessions = %d, want 1", retention.ReturningSessions)
	}
	if retention.RetentionRate != 0.5 {
		t.Errorf("retention rate = %v, want 0.5", retention.RetentionRate)
	}
	if len(retention.DailyActivity) != 2 {
		t.Fatalf("daily activity length = %d, want 2", len(retention.DailyActivity))
	}
	if retention.DailyActivity[0].Date != "2026-08-01" || retention.DailyActivity[0].Sessions != 2 {
		t.Errorf("first day = %+v, want 2 sessions on 2026-08-01", retention.DailyActivity[0])
	}
}

func TestTopTopics(t *testing.T) {
	interactions := []*entity.Interaction{
		interaction("s1", "Barley"),
		interaction("s2", "Barley"),
		interaction("s2", "Oats"),
		interaction("s3", "Peas"),
		interaction("s3", "Oats"),
		interaction("s3", "Barley"),
	}

	topics := TopTopics(interactions, 30, 2)

	if len(topics) != 2 {
		t.Fatalf("topics length = %d, want 2", len(topics))
	}
	if topics[0].Category != "Barley" || topics[0].Interactions != 3 || topics[0].Sessions != 3 {
		t.Errorf("top topic = %+v, want Barley with 3 interactions across 3 sessions", topics[0])
	}
	if topics[1].Category != "Oats" {
		t.Errorf("second topic = %q, want Oats", topics[1].Category)
	}
}

func TestWindows(t *testing.T) {
	var interactions []*entity.Interaction
	// Two short sessions, one escalated.
	interactions = append(interactions, interaction("s1", "Barley"))
	interactions = append(interactions, interaction("s2", "Oats", withAssistance))
	// One medium session of five turns.
	for i := 0; i < 5; i++ {
		interactions = append(interactions, interaction("s3", "Peas"))
	}

	analysis := Windows(interactions, 30)

	if len(analysis.Buckets) != 4 {
		t.Fatalf("bucket count = %d, want 4", len(analysis.Buckets))
	}

	short := analysis.Buckets[0]
	if short.Sessions != 2 {
		t.Errorf("short bucket sessions = %d, want 2", short.Sessions)
	}
	if short.HumanAssistanceRate != 0.5 {
		t.Errorf("short bucket assistance rate = %v, want 0.5", short.HumanAssistanceRate)
	}
	if short.RecommendedWindow != 3 {
		t.Errorf("short bucket recommended window = %d, want 3", short.RecommendedWindow)
	}

	medium := analysis.Buckets[1]
	if medium.Sessions != 1 {
		t.Errorf("medium bucket sessions = %d, want 1", medium.Sessions)
	}

	extended := analysis.Buckets[3]
	if extended.RecommendedWindow != 10 {
		t.Errorf("extended bucket recommended window = %d, want 10", extended.RecommendedWindow)
	}
}
