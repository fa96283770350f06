package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/repository/postgres"
	"github.com/rajkumar/portfolio-site/internal/service"
	"github.com/rajkumar/portfolio-site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimsFor(user *domain.User) *service.Claims {
	return &service.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

func TestBlogService_GetBySlug_Visibility(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)
	adminClaims := claimsFor(admin)

	published := testutil.NewBlogBuilder(admin).WithSlug("published-post").Approved().Build(t, testDB.DB)
	draft := testutil.NewBlogBuilder(admin).WithSlug("draft-post").Build(t, testDB.DB)

	tests := []struct {
		name    string
		caller  *service.Claims
		slug    string
		wantErr error
	}{
		{
			name:   "anonymous sees published post",
			caller: nil,
			slug:   published.Slug,
		},
		{
			name:    "anonymous gets not-found for draft",
			caller:  nil,
			slug:    draft.Slug,
			wantErr: service.ErrBlogNotFound,
		},
		{
			name:    "anonymous gets not-found for missing slug",
			caller:  nil,
			slug:    "no-such-post",
			wantErr: service.ErrBlogNotFound,
		},
		{
			name:   "admin sees draft",
			caller: adminClaims,
			slug:   draft.Slug,
		},
		{
			name:    "admin gets not-found for missing slug",
			caller:  adminClaims,
			slug:    "no-such-post",
			wantErr: service.ErrBlogNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := blogService.GetBySlug(ctx, tt.caller, tt.slug)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slug, post.Slug)
		})
	}
}

func TestBlogService_GetBySlug_ViewCounter(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)
	post := testutil.NewBlogBuilder(admin).WithSlug("counted-post").Approved().Build(t, testDB.DB)

	t.Run("anonymous read increments eventually", func(t *testing.T) {
		got, err := blogService.GetBySlug(ctx, nil, post.Slug)
		require.NoError(t, err)
		// The triggering read sees the pre-increment count.
		assert.Equal(t, 0, got.Views)

		require.Eventually(t, func() bool {
			stored, err := repos.Blog.GetBySlug(ctx, post.Slug)
			return err == nil && stored.Views == 1
		}, 3*time.Second, 50*time.Millisecond, "views should reach 1")
	})

	t.Run("admin read does not increment", func(t *testing.T) {
		_, err := blogService.GetBySlug(ctx, claimsFor(admin), post.Slug)
		require.NoError(t, err)

		// Give a stray goroutine time to misbehave before asserting.
		time.Sleep(200 * time.Millisecond)
		stored, err := repos.Blog.GetBySlug(ctx, post.Slug)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Views)
	})

	t.Run("view increment does not refresh updated_at", func(t *testing.T) {
		stored, err := repos.Blog.GetBySlug(ctx, post.Slug)
		require.NoError(t, err)
		assert.WithinDuration(t, post.UpdatedAt, stored.UpdatedAt, time.Second)
	})
}

func TestBlogService_List_Composition(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)
	adminClaims := claimsFor(admin)
	regular, _ := testutil.NewUserBuilder().WithUsername("reader").Build(t, testDB.DB)

	base := time.Now().Add(-time.Hour)
	oldest := testutil.NewBlogBuilder(admin).
		WithSlug("rusty-intro").WithTitle("Getting started").
		WithContent("An introduction to Rust for Go developers.").
		Approved().WithCreatedAt(base).Build(t, testDB.DB)
	middle := testutil.NewBlogBuilder(admin).
		WithSlug("go-generics").WithTitle("Go generics in practice").
		WithContent("Type parameters without the ceremony.").
		Approved().WithCreatedAt(base.Add(10 * time.Minute)).Build(t, testDB.DB)
	newest := testutil.NewBlogBuilder(admin).
		WithSlug("deploy-notes").WithTitle("RUST deployment notes").
		WithDescription("Shipping rust services").
		Approved().WithCreatedAt(base.Add(20 * time.Minute)).Build(t, testDB.DB)
	draft := testutil.NewBlogBuilder(admin).
		WithSlug("rust-draft").WithTitle("Unfinished rust thoughts").
		WithCreatedAt(base.Add(30 * time.Minute)).Build(t, testDB.DB)

	slugs := func(posts []*domain.BlogPost) []string {
		out := make([]string, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.Slug)
		}
		return out
	}

	t.Run("anonymous list excludes drafts, newest first", func(t *testing.T) {
		posts, err := blogService.List(ctx, nil, service.ListInput{})
		require.NoError(t, err)
		assert.Equal(t, []string{newest.Slug, middle.Slug, oldest.Slug}, slugs(posts))
	})

	t.Run("showAll without admin role is ignored", func(t *testing.T) {
		posts, err := blogService.List(ctx, claimsFor(regular), service.ListInput{ShowAll: true})
		require.NoError(t, err)
		assert.NotContains(t, slugs(posts), draft.Slug)
	})

	t.Run("admin without showAll still sees published only", func(t *testing.T) {
		posts, err := blogService.List(ctx, adminClaims, service.ListInput{})
		require.NoError(t, err)
		assert.NotContains(t, slugs(posts), draft.Slug)
	})

	t.Run("admin with showAll sees drafts", func(t *testing.T) {
		posts, err := blogService.List(ctx, adminClaims, service.ListInput{ShowAll: true})
		require.NoError(t, err)
		assert.Equal(t, []string{draft.Slug, newest.Slug, middle.Slug, oldest.Slug}, slugs(posts))
	})

	t.Run("search is case-insensitive across slug, desc, content and title", func(t *testing.T) {
		posts, err := blogService.List(ctx, nil, service.ListInput{Search: "rust"})
		require.NoError(t, err)
		// rusty-intro via slug+content, deploy-notes via title+desc; the
		// draft matches too but stays hidden from an anonymous caller.
		assert.ElementsMatch(t, []string{oldest.Slug, newest.Slug}, slugs(posts))
	})

	t.Run("search intersects with showAll for admin", func(t *testing.T) {
		posts, err := blogService.List(ctx, adminClaims, service.ListInput{Search: "rust", ShowAll: true})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{oldest.Slug, newest.Slug, draft.Slug}, slugs(posts))
	})
}

func TestBlogService_List_TagFilter(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)

	tagged := testutil.NewBlogBuilder(admin).WithSlug("tagged-post").Approved().Build(t, testDB.DB)
	testutil.NewBlogBuilder(admin).WithSlug("untagged-post").Approved().Build(t, testDB.DB)

	golang := testutil.CreateTag(t, testDB.DB, "golang")
	testutil.AttachTag(t, testDB.DB, tagged, golang)
	testutil.CreateTag(t, testDB.DB, "orphan")

	t.Run("tag filter restricts to associated posts", func(t *testing.T) {
		posts, err := blogService.List(ctx, nil, service.ListInput{Tag: "golang"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, tagged.Slug, posts[0].Slug)
	})

	t.Run("nonexistent tag yields empty list, not an error", func(t *testing.T) {
		posts, err := blogService.List(ctx, nil, service.ListInput{Tag: "no-such-tag"})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("tag with zero associations yields empty list", func(t *testing.T) {
		posts, err := blogService.List(ctx, nil, service.ListInput{Tag: "orphan"})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})
}

func TestBlogService_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)
	regular, _ := testutil.NewUserBuilder().WithUsername("reader").Build(t, testDB.DB)

	t.Run("admin creates with defaults", func(t *testing.T) {
		post, err := blogService.Create(ctx, claimsFor(admin), service.CreateBlogInput{
			Title:   "Hello",
			Slug:    "hello-world",
			Content: "First post.",
		})
		require.NoError(t, err)
		assert.False(t, post.Approved)
		assert.Nil(t, post.Description)
		assert.Equal(t, admin.ID, post.AuthorID)
	})

	t.Run("slug collision is rejected and leaves the original untouched", func(t *testing.T) {
		_, err := blogService.Create(ctx, claimsFor(admin), service.CreateBlogInput{
			Title:   "Hello again",
			Slug:    "hello-world",
			Content: "Different content.",
		})
		assert.ErrorIs(t, err, service.ErrSlugExists)

		stored, err := repos.Blog.GetBySlug(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, "Hello", stored.Title)
		assert.Equal(t, "First post.", stored.Content)
	})

	t.Run("non-admin is denied", func(t *testing.T) {
		_, err := blogService.Create(ctx, claimsFor(regular), service.CreateBlogInput{
			Title:   "Nope",
			Slug:    "nope",
			Content: "Nope.",
		})
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})

	t.Run("anonymous is denied", func(t *testing.T) {
		_, err := blogService.Create(ctx, nil, service.CreateBlogInput{
			Title:   "Nope",
			Slug:    "nope",
			Content: "Nope.",
		})
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}

func TestBlogService_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)
	adminClaims := claimsFor(admin)

	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	t.Run("omitted fields are left unchanged", func(t *testing.T) {
		post := testutil.NewBlogBuilder(admin).
			WithSlug("partial-update").WithTitle("Original title").
			WithDescription("Original desc").WithContent("Original content").
			Build(t, testDB.DB)

		updated, err := blogService.Update(ctx, adminClaims, post.Slug, service.UpdateBlogInput{
			Title: strPtr("New title"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, "Original content", updated.Content)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "Original desc", *updated.Description)
	})

	t.Run("explicit null clears the description", func(t *testing.T) {
		post := testutil.NewBlogBuilder(admin).
			WithSlug("clear-desc").WithDescription("To be cleared").
			Build(t, testDB.DB)

		updated, err := blogService.Update(ctx, adminClaims, post.Slug, service.UpdateBlogInput{
			Description:    nil,
			DescriptionSet: true,
		})
		require.NoError(t, err)
		assert.Nil(t, updated.Description)
	})

	t.Run("approving a draft publishes it", func(t *testing.T) {
		post := testutil.NewBlogBuilder(admin).WithSlug("to-publish").Build(t, testDB.DB)

		updated, err := blogService.Update(ctx, adminClaims, post.Slug, service.UpdateBlogInput{
			Approved: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Approved)

		visible, err := blogService.GetBySlug(ctx, nil, post.Slug)
		require.NoError(t, err)
		assert.Equal(t, post.Slug, visible.Slug)
	})

	t.Run("slug change to a colliding slug is rejected before mutating", func(t *testing.T) {
		a := testutil.NewBlogBuilder(admin).WithSlug("slug-a").WithTitle("A").Build(t, testDB.DB)
		b := testutil.NewBlogBuilder(admin).WithSlug("slug-b").WithTitle("B").Build(t, testDB.DB)

		_, err := blogService.Update(ctx, adminClaims, a.Slug, service.UpdateBlogInput{
			Slug:  strPtr(b.Slug),
			Title: strPtr("A changed"),
		})
		assert.ErrorIs(t, err, service.ErrSlugExists)

		storedA, err := repos.Blog.GetBySlug(ctx, "slug-a")
		require.NoError(t, err)
		assert.Equal(t, "A", storedA.Title)
		storedB, err := repos.Blog.GetBySlug(ctx, "slug-b")
		require.NoError(t, err)
		assert.Equal(t, "B", storedB.Title)
	})

	t.Run("slug change to itself is a no-op collision-wise", func(t *testing.T) {
		post := testutil.NewBlogBuilder(admin).WithSlug("same-slug").Build(t, testDB.DB)

		updated, err := blogService.Update(ctx, adminClaims, post.Slug, service.UpdateBlogInput{
			Slug: strPtr(post.Slug),
		})
		require.NoError(t, err)
		assert.Equal(t, post.Slug, updated.Slug)
	})

	t.Run("updatedAt is refreshed", func(t *testing.T) {
		post := testutil.NewBlogBuilder(admin).
			WithSlug("touched").
			WithCreatedAt(time.Now().Add(-time.Hour)).
			Build(t, testDB.DB)

		updated, err := blogService.Update(ctx, adminClaims, post.Slug, service.UpdateBlogInput{
			Title: strPtr("Touched"),
		})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(post.UpdatedAt))
	})

	t.Run("missing slug reports not-found", func(t *testing.T) {
		_, err := blogService.Update(ctx, adminClaims, "ghost", service.UpdateBlogInput{
			Title: strPtr("Ghost"),
		})
		assert.ErrorIs(t, err, service.ErrBlogNotFound)
	})

	t.Run("non-admin is denied", func(t *testing.T) {
		_, err := blogService.Update(ctx, nil, "same-slug", service.UpdateBlogInput{
			Title: strPtr("Hijack"),
		})
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}

func TestBlogService_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	blogService := service.NewBlogService(repos.Blog, repos.Tag)
	ctx := context.Background()

	admin, _ := testutil.NewUserBuilder().WithUsername("author").AsAdmin().Build(t, testDB.DB)
	adminClaims := claimsFor(admin)

	t.Run("delete cascades tag associations", func(t *testing.T) {
		post := testutil.NewBlogBuilder(admin).WithSlug("doomed").Approved().Build(t, testDB.DB)
		tag := testutil.CreateTag(t, testDB.DB, "doomed-tag")
		testutil.AttachTag(t, testDB.DB, post, tag)

		require.NoError(t, blogService.Delete(ctx, adminClaims, post.Slug))

		_, err := blogService.GetBySlug(ctx, adminClaims, post.Slug)
		assert.ErrorIs(t, err, service.ErrBlogNotFound)

		var edges int64
		testDB.DB.Model(&domain.BlogTag{}).Where("blog_id = ?", post.ID).Count(&edges)
		assert.Zero(t, edges)

		// The tag itself survives.
		remaining, err := repos.Tag.GetByTitle(ctx, "doomed-tag")
		require.NoError(t, err)
		assert.Equal(t, tag.ID, remaining.ID)
	})

	t.Run("delete of a missing slug reports not-found", func(t *testing.T) {
		err := blogService.Delete(ctx, adminClaims, "never-existed")
		assert.ErrorIs(t, err, service.ErrBlogNotFound)
	})

	t.Run("non-admin is denied", func(t *testing.T) {
		err := blogService.Delete(ctx, nil, "whatever")
		assert.ErrorIs(t, err, service.ErrNotAuthorized)
	})
}
