package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"gorm.io/gorm"
)

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *tagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetByTitle(ctx context.Context, title string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.WithContext(ctx).First(&tag, "title = ?", title).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) BlogIDs(ctx context.Context, tagID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.BlogTag{}).
		Where("tag_id = ?", tagID).
		Pluck("blog_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
