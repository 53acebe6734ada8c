package wire

import (
	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/branches", catalogHandler.ListBranches)
	r.Get("/api/branches/{id}", catalogHandler.GetBranch)
	r.Get("/api/branches/{id}/staff", catalogHandler.ListStaff)
	r.Get("/api/services", catalogHandler.ListServices)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/api/admin/branches", catalogHandler.CreateBranch)
		r.Put("/api/admin/branches/{id}", catalogHandler.UpdateBranch)
		r.Post("/api/admin/services", catalogHandler.CreateService)
		r.Put("/api/admin/services/{id}", catalogHandler.UpdateService)
		r.Post("/api/admin/staff", catalogHandler.CreateStaff)
	})
}
