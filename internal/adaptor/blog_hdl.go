package adaptor

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BlogHandler struct {
	service usecase.BlogService
	log     *zap.Logger
}

func NewBlogHandler(service usecase.BlogService, log *zap.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		log:     log.With(zap.String("handler", "blog")),
	}
}

// ListPosts handles GET /api/posts (public)
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	posts, err := h.service.ListPosts(r.Context(), page)
	if err != nil {
		handleServiceError(w, h.log, err, "list posts")
		return
	}
	utils.ResponseSuccess(w, "success", posts)
}

// GetPost handles GET /api/posts/{slug} (public)
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Post slug is required", nil)
		return
	}

	post, err := h.service.GetPost(r.Context(), slug)
	if err != nil {
		handleServiceError(w, h.log, err, "get post")
		return
	}
	utils.ResponseSuccess(w, "success", post)
}

// CreatePost handles POST /api/admin/posts (admin only)
func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "create post")
		return
	}
	utils.ResponseCreated(w, "success", post)
}

// UpdatePost handles PUT /api/admin/posts/{slug} (admin only)
func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		utils.ResponseBadRequest(w, "Post slug is required", nil)
		return
	}

	var req request.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	post, err := h.service.UpdatePost(r.Context(), slug, req)
	if err != nil {
		handleServiceError(w, h.log, err, "update post")
		return
	}
	utils.ResponseSuccess(w, "success", post)
}
