package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBlogNotFound = errors.New("blog not found")
	ErrSlugExists   = errors.New("a blog with this slug already exists")
)

type BlogService struct {
	blogRepo repository.BlogRepository
	tagRepo  repository.TagRepository
}

func NewBlogService(blogRepo repository.BlogRepository, tagRepo repository.TagRepository) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		tagRepo:  tagRepo,
	}
}

type ListInput struct {
	Search  string
	Tag     string
	ShowAll bool
}

// List composes the approval, search and tag clauses into the single query
// predicate used by every listing surface (API and pages alike).
//
// The approval clause is skipped only for an admin caller that asked to see
// everything. A tag title that resolves to nothing, or to a tag with no
// associated posts, yields an empty list rather than dropping the filter.
func (s *BlogService) List(ctx context.Context, caller *Claims, input ListInput) ([]*domain.BlogPost, error) {
	q := repository.BlogQuery{
		ApprovedOnly: !(caller.IsAdmin() && input.ShowAll),
		Search:       input.Search,
	}

	if input.Tag != "" {
		tag, err := s.tagRepo.GetByTitle(ctx, input.Tag)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []*domain.BlogPost{}, nil
			}
			return nil, err
		}
		ids, err := s.tagRepo.BlogIDs(ctx, tag.ID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []*domain.BlogPost{}, nil
		}
		q.IDs = ids
	}

	return s.blogRepo.List(ctx, q)
}

// GetBySlug fetches a single post. A draft viewed by a non-admin is reported
// exactly like a missing slug, so existence of unpublished posts never leaks.
// A qualifying read (non-admin) triggers the detached view increment.
func (s *BlogService) GetBySlug(ctx context.Context, caller *Claims, slug string) (*domain.BlogPost, error) {
	post, err := s.blogRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	if !post.Approved && !caller.IsAdmin() {
		return nil, ErrBlogNotFound
	}

	if !caller.IsAdmin() {
		s.incrementViews(post)
	}

	return post, nil
}

// incrementViews applies the counter bump without blocking or failing the
// read that triggered it. The write uses the count fetched by that read, so
// concurrent readers can observe the same base value and under-count; this is
// an accepted best-effort semantic, not an exactly-once counter.
func (s *BlogService) incrementViews(post *domain.BlogPost) {
	id := post.ID
	slug := post.Slug
	views := post.Views + 1

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.blogRepo.UpdateViews(ctx, id, views); err != nil {
			log.Printf("ERROR [BlogService.incrementViews] %s: %v", slug, err)
		}
	}()
}

type CreateBlogInput struct {
	Title       string
	Slug        string
	Description *string
	Content     string
	Approved    bool
}

func (s *BlogService) Create(ctx context.Context, caller *Claims, input CreateBlogInput) (*domain.BlogPost, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}

	existing, err := s.blogRepo.GetBySlug(ctx, input.Slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugExists
	}

	post := &domain.BlogPost{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
		Content:     input.Content,
		Approved:    input.Approved,
		AuthorID:    caller.UserID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.blogRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdateBlogInput fields are independently optional: a nil pointer leaves the
// field untouched. Description is special-cased so an explicit null in the
// payload clears it (DescriptionSet true, Description nil).
type UpdateBlogInput struct {
	Title          *string
	Slug           *string
	Description    *string
	DescriptionSet bool
	Content        *string
	Approved       *bool
}

func (s *BlogService) Update(ctx context.Context, caller *Claims, slug string, input UpdateBlogInput) (*domain.BlogPost, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}

	post, err := s.blogRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}

	// Reject slug collisions before mutating anything.
	if input.Slug != nil && *input.Slug != post.Slug {
		if _, err := s.blogRepo.GetBySlug(ctx, *input.Slug); err == nil {
			return nil, ErrSlugExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		post.Slug = *input.Slug
	}

	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.DescriptionSet {
		post.Description = input.Description
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Approved != nil {
		post.Approved = *input.Approved
	}
	post.UpdatedAt = time.Now()

	if err := s.blogRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *BlogService) Delete(ctx context.Context, caller *Claims, slug string) error {
	if err := RequireAdmin(caller); err != nil {
		return err
	}

	post, err := s.blogRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}

	if err := s.blogRepo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	return nil
}
