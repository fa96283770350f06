package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// BlogQuery is the composed list predicate. Zero value means "all posts".
type BlogQuery struct {
	// ApprovedOnly restricts the listing to published posts.
	ApprovedOnly bool
	// Search matches case-insensitively against slug, description, content
	// and title when non-empty.
	Search string
	// IDs, when non-nil, restricts results to the given post ids.
	IDs []uuid.UUID
}

type BlogRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	List(ctx context.Context, q BlogQuery) ([]*domain.BlogPost, error)
	Update(ctx context.Context, post *domain.BlogPost) error
	// UpdateViews overwrites the views counter without touching updated_at.
	UpdateViews(ctx context.Context, id uuid.UUID, views int) error
	// Delete removes the post and its tag associations.
	Delete(ctx context.Context, id uuid.UUID) error
}

type TagRepository interface {
	GetByTitle(ctx context.Context, title string) (*domain.Tag, error)
	List(ctx context.Context) ([]*domain.Tag, error)
	// BlogIDs returns the ids of all posts associated with the tag.
	BlogIDs(ctx context.Context, tagID uuid.UUID) ([]uuid.UUID, error)
}

type Repositories struct {
	User UserRepository
	Blog BlogRepository
	Tag  TagRepository
}
