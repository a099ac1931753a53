package dto

import (
	"time"

	"github.com/arkastudio/studio_ledger/internal/core/domain"
)

// CreatePeriodRequest defines the payload for opening a fiscal period.
type CreatePeriodRequest struct {
	Code       string            `json:"code" binding:"required"`
	Name       string            `json:"name" binding:"required"`
	PeriodType domain.PeriodType `json:"periodType" binding:"required,oneof=MONTHLY QUARTERLY YEARLY"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID   string              `json:"periodID"`
	Code       string              `json:"code"`
	Name       string              `json:"name"`
	PeriodType domain.PeriodType   `json:"periodType"`
	StartDate  time.Time           `json:"startDate"`
	EndDate    time.Time           `json:"endDate"`
	Status     domain.PeriodStatus `json:"status"`
}

// ToPeriodResponse converts a domain.FiscalPeriod to its response DTO.
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:   p.PeriodID,
		Code:       p.Code,
		Name:       p.Name,
		PeriodType: p.PeriodType,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status,
	}
}

// ToPeriodResponses converts a slice of periods.
func ToPeriodResponses(periods []domain.FiscalPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}
