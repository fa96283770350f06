package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/repository"
	"gorm.io/gorm"
)

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *blogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *blogRepository) List(ctx context.Context, q repository.BlogQuery) ([]*domain.BlogPost, error) {
	db := r.db.WithContext(ctx).Preload("Author")

	if q.ApprovedOnly {
		db = db.Where("approved = ?", true)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where(
			"slug ILIKE ? OR description ILIKE ? OR content ILIKE ? OR title ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if q.IDs != nil {
		db = db.Where("id IN ?", q.IDs)
	}

	var posts []*domain.BlogPost
	// id DESC breaks created_at ties so the ordering is stable.
	err := db.Order("created_at DESC").Order("id DESC").Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *blogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *blogRepository) UpdateViews(ctx context.Context, id uuid.UUID, views int) error {
	// UpdateColumn skips the updated_at hook: a view is not an edit.
	return r.db.WithContext(ctx).
		Model(&domain.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", views).Error
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&domain.BlogTag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.BlogPost{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
