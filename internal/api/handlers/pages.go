package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rajkumar/portfolio-site/internal/api/middleware"
	"github.com/rajkumar/portfolio-site/internal/domain"
	"github.com/rajkumar/portfolio-site/internal/service"
	"github.com/rajkumar/portfolio-site/web"
)

// PageHandler is the server-rendered entry point. It goes through the same
// BlogService as the JSON API, so both surfaces share one filter composition
// and one visibility decision.
type PageHandler struct {
	blogService *service.BlogService
	tagService  *service.TagService
	tpls        *template.Template
}

func NewPageHandler(blogService *service.BlogService, tagService *service.TagService) *PageHandler {
	tpls := template.Must(template.ParseFS(web.Templates, "templates/*.html"))
	return &PageHandler{
		blogService: blogService,
		tagService:  tagService,
		tpls:        tpls,
	}
}

type pageData struct {
	Caller *service.Claims
	Blogs  []*domain.BlogPost
	Blog   *domain.BlogPost
	Tags   []*domain.Tag
	Search string
	Tag    string
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tpls.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("ERROR [PageHandler.render] %s: %v", name, err)
	}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, "home.html", pageData{Caller: middleware.CurrentIdentity(r.Context())})
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login.html", pageData{})
}

// BlogList renders the public listing. The ShowAll flag is deliberately not
// wired here: published-only is the default for everyone, and drafts surface
// on the admin page instead.
func (h *PageHandler) BlogList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())
	search := r.URL.Query().Get("search")
	tag := r.URL.Query().Get("tag")

	posts, err := h.blogService.List(r.Context(), claims, service.ListInput{
		Search: search,
		Tag:    tag,
	})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	tags, err := h.tagService.List(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "blogs.html", pageData{
		Caller: claims,
		Blogs:  posts,
		Tags:   tags,
		Search: search,
		Tag:    tag,
	})
}

func (h *PageHandler) BlogDetail(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())
	slug := chi.URLParam(r, "slug")

	post, err := h.blogService.GetBySlug(r.Context(), claims, slug)
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "blog.html", pageData{Caller: claims, Blog: post})
}

// AdminBlogList lists every post, drafts included. The route sits behind the
// admin page gate and the service re-checks the role through List's ShowAll
// path all the same.
func (h *PageHandler) AdminBlogList(w http.ResponseWriter, r *http.Request) {
	claims := middleware.CurrentIdentity(r.Context())

	posts, err := h.blogService.List(r.Context(), claims, service.ListInput{ShowAll: true})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, "admin_blogs.html", pageData{Caller: claims, Blogs: posts})
}
