package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
)

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	OwnerID         uuid.UUID `json:"-"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	IsActive        *bool     `json:"is_active,omitempty"` // по умолчанию true
}

// UpdateServiceRequest запрос на частичное обновление услуги
type UpdateServiceRequest struct {
	OwnerID         uuid.UUID `json:"-"`
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Price           float64   `json:"price"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:              s.ID,
		OwnerID:         s.OwnerID,
		Name:            s.Name,
		Description:     s.Description,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, s := range services {
		if serviceResp := FromDomainService(s); serviceResp != nil {
			resp.Services = append(resp.Services, *serviceResp)
		}
	}

	return resp
}
