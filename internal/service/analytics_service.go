package service

import (
	"context"
	"time"

	"cargo-chatbot-be/internal/dto"
	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/pkg/logger"
	"cargo-chatbot-be/internal/repository/specification"
	"cargo-chatbot-be/internal/repository/unitofwork"
	"cargo-chatbot-be/pkg/analytics"
)

// IAnalyticsService exposes read-side reports over the interaction store.
// Every method returns (nil, nil) when the store is disabled or unreachable;
// callers translate that into an "analytics unavailable" response.
type IAnalyticsService interface {
	Summary(ctx context.Context, days int) (*analytics.Summary, error)
	SessionStats(ctx context.Context, sessionId string) (*analytics.SessionStats, error)
	Quality(ctx context.Context, days int) (*analytics.QualityMetrics, error)
	FollowUpPatterns(ctx context.Context, limit int) (*analytics.FollowUpPatterns, error)
	Retention(ctx context.Context, days int) (*analytics.Retention, error)
	TopTopics(ctx context.Context, days, limit int) ([]analytics.TopicStats, error)
	WindowEffectiveness(ctx context.Context, days int) (*analytics.WindowEffectiveness, error)
	RecommendedWindow(ctx context.Context, sessionId string) (*dto.RecommendedWindowResponse, error)
	HumanAssistanceQuestions(ctx context.Context, limit int) ([]string, error)
}

type analyticsService struct {
	uowFactory unitofwork.RepositoryFactory // nil when analytics is disabled
	logger     logger.ILogger
}

func NewAnalyticsService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IAnalyticsService {
	return &analyticsService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// fetchSince loads interactions from the trailing period. The second return
// is false when the store is disabled or the query failed.
func (s *analyticsService) fetchSince(ctx context.Context, days int) ([]*entity.Interaction, bool) {
	if s.uowFactory == nil {
		return nil, false
	}

	after := time.Now().AddDate(0, 0, -days)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	interactions, err := uow.InteractionRepository().FindAll(ctx, specification.SinceTime{After: after})
	if err != nil {
		s.logger.Error("AnalyticsService", "Interaction query failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return interactions, true
}

func (s *analyticsService) Summary(ctx context.Context, days int) (*analytics.Summary, error) {
	interactions, ok := s.fetchSince(ctx, days)
	if !ok {
		return nil, nil
	}
	return analytics.Summarize(interactions, days), nil
}

func (s *analyticsService) SessionStats(ctx context.Context, sessionId string) (*analytics.SessionStats, error) {
	if s.uowFactory == nil {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	interactions, err := uow.InteractionRepository().FindAll(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		s.logger.Error("AnalyticsService", "Session query failed", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}
	return analytics.SessionStatsFor(sessionId, interactions), nil
}

func (s *analyticsService) Quality(ctx context.Context, days int) (*analytics.QualityMetrics, error) {
	interactions, ok := s.fetchSince(ctx, days)
	if !ok {
		return nil, nil
	}
	return analytics.Quality(interactions, days), nil
}

func (s *analyticsService) FollowUpPatterns(ctx context.Context, limit int) (*analytics.FollowUpPatterns, error) {
	// Follow-up analysis looks at the last 30 days of sessions
	interactions, ok := s.fetchSince(ctx, 30)
	if !ok {
		return nil, nil
	}
	return analytics.FollowUps(interactions, limit), nil
}

func (s *analyticsService) Retention(ctx context.Context, days int) (*analytics.Retention, error) {
	interactions, ok := s.fetchSince(ctx, days)
	if !ok {
		return nil, nil
	}
	return analytics.Retain(interactions, days), nil
}

func (s *analyticsService) TopTopics(ctx context.Context, days, limit int) ([]analytics.TopicStats, error) {
	interactions, ok := s.fetchSince(ctx, days)
	if !ok {
		return nil, nil
	}
	return analytics.TopTopics(interactions, days, limit), nil
}

func (s *analyticsService) WindowEffectiveness(ctx context.Context, days int) (*analytics.WindowEffectiveness, error) {
	interactions, ok := s.fetchSince(ctx, days)
	if !ok {
		return nil, nil
	}
	return analytics.Windows(interactions, days), nil
}

func (s *analyticsService) RecommendedWindow(ctx context.Context, sessionId string) (*dto.RecommendedWindowResponse, error) {
	stats, err := s.SessionStats(ctx, sessionId)
	if err != nil || stats == nil {
		return nil, err
	}

	return &dto.RecommendedWindowResponse{
		SessionId:             sessionId,
		InteractionCount:      stats.InteractionCount,
		HasHumanAssistance:    stats.HasHumanAssistance,
		RecommendedWindowSize: analytics.RecommendWindowSize(stats.InteractionCount, stats.HasHumanAssistance),
	}, nil
}

func (s *analyticsService) HumanAssistanceQuestions(ctx context.Context, limit int) ([]string, error) {
	if s.uowFactory == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	interactions, err := uow.InteractionRepository().FindAll(ctx,
		specification.WithHumanAssistance{},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		s.logger.Error("AnalyticsService", "Human assistance query failed", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}

	questions := make([]string, len(interactions))
	for i, it := range interactions {
		questions[i] = it.Question
	}
	return questions, nil
}
