package usecase

import (
	"context"
	"time"

	"clinic-booking/internal/data/entity"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/dto/request"
	"clinic-booking/internal/dto/response"
	"clinic-booking/internal/scheduling"
	"clinic-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	CreateBranch(ctx context.Context, req request.CreateBranchRequest) (*response.BranchResponse, error)
	UpdateBranch(ctx context.Context, id uuid.UUID, req request.UpdateBranchRequest) (*response.BranchResponse, error)
	GetBranch(ctx context.Context, id uuid.UUID) (*response.BranchResponse, error)
	ListBranches(ctx context.Context) ([]response.BranchResponse, error)

	CreateService(ctx context.Context, req request.CreateServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, id uuid.UUID, req request.UpdateServiceRequest) (*response.ServiceResponse, error)
	ListServices(ctx context.Context) ([]response.ServiceResponse, error)

	CreateStaff(ctx context.Context, req request.CreateStaffRequest) (*response.StaffResponse, error)
	ListStaffByBranch(ctx context.Context, branchID uuid.UUID) ([]response.StaffResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

// validateHours rejects malformed or inverted opening intervals.
func validateHours(hours []request.BranchHourRequest) error {
	for _, h := range hours {
		open, err := scheduling.ParseTimeOfDay(h.OpenTime)
		if err != nil {
			return err
		}
		close, err := scheduling.ParseTimeOfDay(h.CloseTime)
		if err != nil {
			return err
		}
		if !open.Before(close) {
			return scheduling.ErrInvalidHours
		}
	}
	return nil
}

func buildHours(branchID uuid.UUID, reqs []request.BranchHourRequest) []*entity.BranchHour {
	hours := make([]*entity.BranchHour, 0, len(reqs))
	for _, h := range reqs {
		hours = append(hours, &entity.BranchHour{
			ID:        utils.GenerateUUID(),
			BranchID:  branchID,
			Weekday:   time.Weekday(h.Weekday),
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
		})
	}
	return hours
}

func (s *catalogService) CreateBranch(ctx context.Context, req request.CreateBranchRequest) (*response.BranchResponse, error) {
	// Opening intervals must be well formed before anything is persisted.
	if err := validateHours(req.Hours); err != nil {
		return nil, err
	}

	now := time.Now()
	branch := &entity.Branch{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := s.repo.Branch.Create(ctx, branch); err != nil {
		return nil, err
	}

	hours := buildHours(branch.ID, req.Hours)
	if err := s.repo.Branch.ReplaceHours(ctx, branch.ID, hours); err != nil {
		return nil, err
	}

	s.log.Info("Branch created", zap.String("branch_id", branch.ID.String()), zap.String("name", branch.Name))
	resp := response.BranchToResponse(branch, hours)
	return &resp, nil
}

func (s *catalogService) UpdateBranch(ctx context.Context, id uuid.UUID, req request.UpdateBranchRequest) (*response.BranchResponse, error) {
	if err := validateHours(req.Hours); err != nil {
		return nil, err
	}

	branch, err := s.repo.Branch.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}

	branch.Name = req.Name
	branch.Address = req.Address
	branch.Phone = req.Phone
	branch.IsActive = req.IsActive
	branch.UpdatedAt = time.Now()
	if err := s.repo.Branch.Update(ctx, branch); err != nil {
		return nil, err
	}

	// Omitting hours keeps the existing schedule; an empty list clears it.
	if req.Hours != nil {
		hours := buildHours(branch.ID, req.Hours)
		if err := s.repo.Branch.ReplaceHours(ctx, branch.ID, hours); err != nil {
			return nil, err
		}
	}

	hours, err := s.repo.Branch.FindHours(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("Branch updated", zap.String("branch_id", branch.ID.String()))
	resp := response.BranchToResponse(branch, hours)
	return &resp, nil
}

func (s *catalogService) GetBranch(ctx context.Context, id uuid.UUID) (*response.BranchResponse, error) {
	branch, err := s.repo.Branch.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}
	hours, err := s.repo.Branch.FindHours(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.BranchToResponse(branch, hours)
	return &resp, nil
}

func (s *catalogService) ListBranches(ctx context.Context) ([]response.BranchResponse, error) {
	branches, err := s.repo.Branch.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]response.BranchResponse, 0, len(branches))
	for _, b := range branches {
		result = append(result, response.BranchToResponse(b, nil))
	}
	return result, nil
}

func (s *catalogService) CreateService(ctx context.Context, req request.CreateServiceRequest) (*response.ServiceResponse, error) {
	now := time.Now()
	svc := &entity.Service{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}
	if err := s.repo.Service.Create(ctx, svc); err != nil {
		return nil, err
	}

	s.log.Info("Service created", zap.String("service_id", svc.ID.String()), zap.String("name", svc.Name))
	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, req request.UpdateServiceRequest) (*response.ServiceResponse, error) {
	svc, err := s.repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	svc.Name = req.Name
	svc.Description = req.Description
	svc.DurationMinutes = req.DurationMinutes
	svc.Price = req.Price
	svc.IsActive = req.IsActive
	svc.UpdatedAt = time.Now()
	if err := s.repo.Service.Update(ctx, svc); err != nil {
		return nil, err
	}

	s.log.Info("Service updated", zap.String("service_id", svc.ID.String()))
	resp := response.ServiceToResponse(svc)
	return &resp, nil
}

func (s *catalogService) ListServices(ctx context.Context) ([]response.ServiceResponse, error) {
	services, err := s.repo.Service.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]response.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, response.ServiceToResponse(svc))
	}
	return result, nil
}

func (s *catalogService) CreateStaff(ctx context.Context, req request.CreateStaffRequest) (*response.StaffResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, ErrBranchNotFound
	}
	branch, err := s.repo.Branch.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, ErrBranchNotFound
	}

	serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		serviceID, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrServiceNotFound
		}
		svc, err := s.repo.Service.FindByID(ctx, serviceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, ErrServiceNotFound
		}
		serviceIDs = append(serviceIDs, serviceID)
	}

	now := time.Now()
	staff := &entity.Staff{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BranchID: branchID,
		Name:     req.Name,
		Title:    req.Title,
		IsActive: true,
	}
	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	if len(serviceIDs) > 0 {
		if err := s.repo.Staff.SetServices(ctx, staff.ID, serviceIDs); err != nil {
			return nil, err
		}
	}

	s.log.Info("Staff created", zap.String("staff_id", staff.ID.String()), zap.String("branch_id", branchID.String()))
	resp := response.StaffToResponse(staff, req.ServiceIDs)
	return &resp, nil
}

func (s *catalogService) ListStaffByBranch(ctx context.Context, branchID uuid.UUID) ([]response.StaffResponse, error) {
	staff, err := s.repo.Staff.FindActiveByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}

	result := make([]response.StaffResponse, 0, len(staff))
	for _, m := range staff {
		serviceIDs, err := s.repo.Staff.FindServiceIDs(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(serviceIDs))
		for _, id := range serviceIDs {
			ids = append(ids, id.String())
		}
		result = append(result, response.StaffToResponse(m, ids))
	}
	return result, nil
}
