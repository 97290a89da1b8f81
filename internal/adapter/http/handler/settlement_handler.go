package handler

import (
	"context"
	"net/http"

	"github.com/iho/settleup/internal/adapter/http/dto"
	"github.com/iho/settleup/internal/domain"
	"github.com/iho/settleup/internal/usecase"
)

// SettlementService is the application API used by SettlementHandler.
type SettlementService interface {
	SplitExpense(ctx context.Context, expense domain.Expense) (*domain.ShareResult, error)
	CalculateBalances(ctx context.Context, expenses []domain.Expense) ([]domain.BalanceSummary, error)
	OptimizeSettlements(ctx context.Context, debts []domain.Debt) (*domain.SimplificationResult, error)
	ValidateDebts(ctx context.Context, debts []domain.Debt) bool
	SettleExpenses(ctx context.Context, expenses []domain.Expense) (*usecase.SettlementPlan, error)
}

// SettlementHandler handles settlement engine HTTP requests.
type SettlementHandler struct {
	svc SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(svc SettlementService) *SettlementHandler {
	return &SettlementHandler{svc: svc}
}

// Split splits a single expense.
func (h *SettlementHandler) Split(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpenseRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid expense", err.Error())
		return
	}

	result, err := h.svc.SplitExpense(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to split expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitFromDomain(result))
}

// Balances aggregates net balances across expenses.
func (h *SettlementHandler) Balances(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpensesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid expenses", err.Error())
		return
	}

	balances, err := h.svc.CalculateBalances(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to calculate balances", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(balances))
}

// Simplify reduces debts to a minimal payment list.
func (h *SettlementHandler) Simplify(w http.ResponseWriter, r *http.Request) {
	var req dto.DebtsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid debts", err.Error())
		return
	}

	result, err := h.svc.OptimizeSettlements(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to simplify debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SimplifyFromDomain(result))
}

// Validate reports whether every debt has a positive amount.
func (h *SettlementHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.DebtsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidateResponse{
		Valid: h.svc.ValidateDebts(r.Context(), req.ToDomain()),
		Count: len(req.Debts),
	})
}

// Plan runs the full expenses to payments pipeline.
func (h *SettlementHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.ExpensesRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, mapDomainError(err), "invalid expenses", err.Error())
		return
	}

	plan, err := h.svc.SettleExpenses(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create settlement plan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PlanFromUseCase(plan))
}
