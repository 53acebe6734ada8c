package adaptor

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ListBranches handles GET /api/branches (public)
func (h *CatalogHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.ListBranches(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list branches")
		return
	}
	utils.ResponseSuccess(w, "success", branches)
}

// GetBranch handles GET /api/branches/{id} (public)
func (h *CatalogHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid branch ID", nil)
		return
	}

	branch, err := h.service.GetBranch(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get branch")
		return
	}
	utils.ResponseSuccess(w, "success", branch)
}

// CreateBranch handles POST /api/admin/branches (admin only)
func (h *CatalogHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	branch, err := h.service.CreateBranch(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "create branch")
		return
	}
	utils.ResponseCreated(w, "success", branch)
}

// UpdateBranch handles PUT /api/admin/branches/{id} (admin only)
func (h *CatalogHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid branch ID", nil)
		return
	}

	var req request.UpdateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	branch, err := h.service.UpdateBranch(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, h.log, err, "update branch")
		return
	}
	utils.ResponseSuccess(w, "success", branch)
}

// ListServices handles GET /api/services (public)
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}
	utils.ResponseSuccess(w, "success", services)
}

// CreateService handles POST /api/admin/services (admin only)
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req request.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	svc, err := h.service.CreateService(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}
	utils.ResponseCreated(w, "success", svc)
}

// UpdateService handles PUT /api/admin/services/{id} (admin only)
func (h *CatalogHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid service ID", nil)
		return
	}

	var req request.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	svc, err := h.service.UpdateService(r.Context(), id, req)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}
	utils.ResponseSuccess(w, "success", svc)
}

// ListStaff handles GET /api/branches/{id}/staff (public)
func (h *CatalogHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid branch ID", nil)
		return
	}

	staff, err := h.service.ListStaffByBranch(r.Context(), branchID)
	if err != nil {
		handleServiceError(w, h.log, err, "list staff")
		return
	}
	utils.ResponseSuccess(w, "success", staff)
}

// CreateStaff handles POST /api/admin/staff (admin only)
func (h *CatalogHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req request.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	staff, err := h.service.CreateStaff(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "create staff")
		return
	}
	utils.ResponseCreated(w, "success", staff)
}
