package dto

import (
	"github.com/iho/settleup/internal/domain"
	"github.com/iho/settleup/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SplitResponse represents a split expense in API responses.
type SplitResponse struct {
	domain.ShareResult
	TotalCents domain.Cents `json:"total_cents"`
	Total      string       `json:"total"`
}

// SplitFromDomain converts a share result to response.
func SplitFromDomain(r *domain.ShareResult) *SplitResponse {
	total := r.Total()
	return &SplitResponse{
		ShareResult: *r,
		TotalCents:  total,
		Total:       domain.FormatCents(total),
	}
}

// BalancesResponse represents aggregated balances in API responses.
type BalancesResponse struct {
	Balances []domain.BalanceSummary `json:"balances"`
	Count    int                     `json:"count"`
}

// BalancesFromDomain converts balances to response.
func BalancesFromDomain(balances []domain.BalanceSummary) *BalancesResponse {
	if balances == nil {
		balances = []domain.BalanceSummary{}
	}
	return &BalancesResponse{Balances: balances, Count: len(balances)}
}

// SimplifyResponse represents a simplification in API responses.
type SimplifyResponse struct {
	domain.SimplificationResult
	TotalCents domain.Cents `json:"total_cents"`
	Total      string       `json:"total"`
}

// SimplifyFromDomain converts a simplification result to response.
func SimplifyFromDomain(r *domain.SimplificationResult) *SimplifyResponse {
	total := r.TotalCents()
	return &SimplifyResponse{
		SimplificationResult: *r,
		TotalCents:           total,
		Total:                domain.FormatCents(total),
	}
}

// ValidateResponse reports whether a debt list is valid.
type ValidateResponse struct {
	Valid bool `json:"valid"`
	Count int  `json:"count"`
}

// PlanResponse represents a settlement plan in API responses.
type PlanResponse struct {
	*usecase.SettlementPlan
	Total string `json:"total"`
}

// PlanFromUseCase converts a settlement plan to response.
func PlanFromUseCase(p *usecase.SettlementPlan) *PlanResponse {
	return &PlanResponse{
		SettlementPlan: p,
		Total:          domain.FormatCents(p.Result.TotalCents()),
	}
}
