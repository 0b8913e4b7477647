package mapper

import (
	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}

	return &entity.Interaction{
		Id:                      i.Id,
		SessionId:               i.SessionId,
		Question:                i.Question,
		Answer:                  i.Answer,
		Category:                i.Category,
		ContextRelevance:        i.ContextRelevance,
		ContextSources:          []string(i.ContextSources),
		HumanAssistanceRequired: i.HumanAssistanceRequired,
		RefinementPerformed:     i.RefinementPerformed,
		ResponseTimeMs:          i.ResponseTimeMs,
		UserAgent:               i.UserAgent,
		IpAddress:               i.IpAddress,
		CreatedAt:               i.CreatedAt,
	}
}

func (m *InteractionMapper) ToModel(i *entity.Interaction) *model.Interaction {
	if i == nil {
		return nil
	}

	return &model.Interaction{
		Id:                      i.Id,
		SessionId:               i.SessionId,
		Question:                i.Question,
		Answer:                  i.Answer,
		Category:                i.Category,
		ContextRelevance:        i.ContextRelevance,
		ContextSources:          datatypes.NewJSONSlice(i.ContextSources),
		HumanAssistanceRequired: i.HumanAssistanceRequired,
		RefinementPerformed:     i.RefinementPerformed,
		ResponseTimeMs:          i.ResponseTimeMs,
		UserAgent:               i.UserAgent,
		IpAddress:               i.IpAddress,
		CreatedAt:               i.CreatedAt,
	}
}

func (m *InteractionMapper) ToEntities(interactions []*model.Interaction) []*entity.Interaction {
	entities := make([]*entity.Interaction, len(interactions))
	for i, it := range interactions {
		entities[i] = m.ToEntity(it)
	}
	return entities
}
