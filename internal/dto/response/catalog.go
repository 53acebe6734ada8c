package response

import (
	"clinic-booking/internal/data/entity"
)

type BranchHourResponse struct {
	Weekday   int    `json:"weekday"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

type BranchResponse struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Address  string               `json:"address"`
	Phone    string               `json:"phone"`
	IsActive bool                 `json:"is_active"`
	Hours    []BranchHourResponse `json:"hours,omitempty"`
}

type ServiceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"is_active"`
}

type StaffResponse struct {
	ID         string   `json:"id"`
	BranchID   string   `json:"branch_id"`
	Name       string   `json:"name"`
	Title      string   `json:"title,omitempty"`
	IsActive   bool     `json:"is_active"`
	ServiceIDs []string `json:"service_ids,omitempty"`
}

func BranchToResponse(b *entity.Branch, hours []*entity.BranchHour) BranchResponse {
	resp := BranchResponse{
		ID:       b.ID.String(),
		Name:     b.Name,
		Address:  b.Address,
		Phone:    b.Phone,
		IsActive: b.IsActive,
	}
	for _, h := range hours {
		resp.Hours = append(resp.Hours, BranchHourResponse{
			Weekday:   int(h.Weekday),
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
		})
	}
	return resp
}

func ServiceToResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID.String(),
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
	}
}

func StaffToResponse(s *entity.Staff, serviceIDs []string) StaffResponse {
	return StaffResponse{
		ID:         s.ID.String(),
		BranchID:   s.BranchID.String(),
		Name:       s.Name,
		Title:      s.Title,
		IsActive:   s.IsActive,
		ServiceIDs: serviceIDs,
	}
}
