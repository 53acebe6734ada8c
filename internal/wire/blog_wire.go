package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBlog(
	r chi.Router,
	blogHandler *adaptor.BlogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/posts", blogHandler.ListPosts)
	r.Get("/api/posts/{slug}", blogHandler.GetPost)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/posts", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", blogHandler.CreatePost)
		r.Put("/{slug}", blogHandler.UpdatePost)
	})
}
