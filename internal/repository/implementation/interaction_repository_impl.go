package implementation

import (
	"context"

	"cargo-chatbot-be/internal/entity"
	"cargo-chatbot-be/internal/mapper"
	"cargo-chatbot-be/internal/model"
	"cargo-chatbot-be/internal/repository/contract"
	"cargo-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
)

type InteractionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InteractionMapper
}

func NewInteractionRepository(db *gorm.DB) contract.InteractionRepository {
	return &InteractionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInteractionMapper(),
	}
}

func (r *InteractionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InteractionRepositoryImpl) Create(ctx context.Context, interaction *entity.Interaction) error {
	m := r.mapper.ToModel(interaction)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*interaction = *r.mapper.ToEntity(m)
	return nil
}

func (r *InteractionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error) {
	var models []*model.Interaction
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *InteractionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Interaction{}).Count(&count).Error
	return count, err
}

func (r *InteractionRepositoryImpl) DistinctSessionIds(ctx context.Context, specs ...specification.Specification) ([]string, error) {
	var ids []string
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Interaction{}), specs...)
	if err := query.Distinct("session_id").Pluck("session_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
