package handlers

import (
	"net/http"

	"github.com/rajkumar/portfolio-site/internal/service"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"tags": tags})
}
