package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rajkumar/portfolio-site/internal/api/middleware"
	"github.com/rajkumar/portfolio-site/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
}

func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// nullString distinguishes an omitted JSON field from an explicit null:
// Set is true whenever the key was present, Value is nil for null.
type nullString struct {
	Set   bool
	Value *string
}

func (n *nullString) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.Value)
}

func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())

	posts, err := h.blogService.List(r.Context(), claims, service.ListInput{
		Search:  r.URL.Query().Get("search"),
		Tag:     r.URL.Query().Get("tag"),
		ShowAll: r.URL.Query().Get("showAll") == "true",
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch blogs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blogs": posts})
}

func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())
	slug := chi.URLParam(r, "slug")

	post, err := h.blogService.GetBySlug(r.Context(), claims, slug)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			respondError(w, http.StatusNotFound, "Blog not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch blog")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blog": post})
}

type CreateBlogRequest struct {
	Title    string  `json:"title"`
	Slug     string  `json:"slug"`
	Desc     *string `json:"desc"`
	Content  string  `json:"content"`
	Approved bool    `json:"approved"`
}

func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())

	var req CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.Slug == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "Title, slug, and content are required")
		return
	}

	post, err := h.blogService.Create(r.Context(), claims, service.CreateBlogInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Desc,
		Content:     req.Content,
		Approved:    req.Approved,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			respondError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, service.ErrSlugExists):
			respondError(w, http.StatusBadRequest, "A blog with this slug already exists")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to create blog")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{"blog": post})
}

type UpdateBlogRequest struct {
	Title    *string    `json:"title"`
	NewSlug  *string    `json:"newSlug"`
	Desc     nullString `json:"desc"`
	Content  *string    `json:"content"`
	Approved *bool      `json:"approved"`
}

func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())
	slug := chi.URLParam(r, "slug")

	var req UpdateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.blogService.Update(r.Context(), claims, slug, service.UpdateBlogInput{
		Title:          req.Title,
		Slug:           req.NewSlug,
		Description:    req.Desc.Value,
		DescriptionSet: req.Desc.Set,
		Content:        req.Content,
		Approved:       req.Approved,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			respondError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, service.ErrBlogNotFound):
			respondError(w, http.StatusNotFound, "Blog not found")
		case errors.Is(err, service.ErrSlugExists):
			respondError(w, http.StatusBadRequest, "A blog with this slug already exists")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to update blog")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blog": post})
}

func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())
	slug := chi.URLParam(r, "slug")

	if err := h.blogService.Delete(r.Context(), claims, slug); err != nil {
		switch {
		case errors.Is(err, service.ErrNotAuthorized):
			respondError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, service.ErrBlogNotFound):
			respondError(w, http.StatusNotFound, "Blog not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to delete blog")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
