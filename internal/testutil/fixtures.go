package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rajkumar/portfolio-site/internal/api/middleware"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	password string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// AsAdmin gives the user the admin role
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.role = domain.RoleAdmin
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildAndLogin creates the user, logs in through the API and returns the
// user together with the session cookie.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *http.Cookie) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)

	body, _ := json.Marshal(map[string]string{
		"username": user.Username,
		"password": password,
	})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}

	for _, c := range resp.Cookies() {
		if c.Name == middleware.AuthCookie {
			return user, c
		}
	}
	t.Fatalf("login response did not set %s cookie", middleware.AuthCookie)
	return nil, nil
}

// BlogBuilder creates test blog posts with a builder pattern
type BlogBuilder struct {
	title       string
	slug        string
	description *string
	content     string
	approved    bool
	views       int
	author      *domain.User
	createdAt   time.Time
}

// NewBlogBuilder creates a new BlogBuilder with default values
func NewBlogBuilder(author *domain.User) *BlogBuilder {
	suffix := uuid.New().String()[:8]
	return &BlogBuilder{
		title:     fmt.Sprintf("Test Post %s", suffix),
		slug:      fmt.Sprintf("test-post-%s", suffix),
		content:   "Some test content.",
		author:    author,
		createdAt: time.Now(),
	}
}

func (b *BlogBuilder) WithTitle(title string) *BlogBuilder {
	b.title = title
	return b
}

func (b *BlogBuilder) WithSlug(slug string) *BlogBuilder {
	b.slug = slug
	return b
}

func (b *BlogBuilder) WithDescription(desc string) *BlogBuilder {
	b.description = &desc
	return b
}

func (b *BlogBuilder) WithContent(content string) *BlogBuilder {
	b.content = content
	return b
}

func (b *BlogBuilder) Approved() *BlogBuilder {
	b.approved = true
	return b
}

func (b *BlogBuilder) WithViews(views int) *BlogBuilder {
	b.views = views
	return b
}

func (b *BlogBuilder) WithCreatedAt(at time.Time) *BlogBuilder {
	b.createdAt = at
	return b
}

// Build creates the blog post in the database
func (b *BlogBuilder) Build(t *testing.T, db *gorm.DB) *domain.BlogPost {
	t.Helper()

	post := &domain.BlogPost{
		ID:          uuid.New(),
		Title:       b.title,
		Slug:        b.slug,
		Description: b.description,
		Content:     b.content,
		Views:       b.views,
		Approved:    b.approved,
		AuthorID:    b.author.ID,
		CreatedAt:   b.createdAt,
		UpdatedAt:   b.createdAt,
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create blog post: %v", err)
	}

	return post
}

// CreateTag creates a tag in the database
func CreateTag(t *testing.T, db *gorm.DB, title string) *domain.Tag {
	t.Helper()

	tag := &domain.Tag{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// AttachTag associates a tag with a blog post
func AttachTag(t *testing.T, db *gorm.DB, post *domain.BlogPost, tag *domain.Tag) {
	t.Helper()

	edge := &domain.BlogTag{
		ID:        uuid.New(),
		BlogID:    post.ID,
		TagID:     tag.ID,
		CreatedAt: time.Now(),
	}
	if err := db.Create(edge).Error; err != nil {
		t.Fatalf("failed to attach tag: %v", err)
	}
}
