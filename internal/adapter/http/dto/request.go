package dto

import (
	"errors"
	"fmt"

	"github.com/iho/settleup/internal/domain"
)

// MaxRecords bounds the number of expenses, debts or participants accepted
// in a single request.
const MaxRecords = 10000

// ErrTooManyRecords is returned when a request exceeds MaxRecords.
var ErrTooManyRecords = errors.New("too many records")

// ExpenseRequest represents one expense in API requests.
type ExpenseRequest struct {
	ID           string       `json:"id"`
	PayerID      string       `json:"payer_id"`
	AmountCents  domain.Cents `json:"amount_cents"`
	Participants []string     `json:"participants"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
}

// Validate checks ids and participant count.
func (r *ExpenseRequest) Validate() error {
	if r.PayerID == "" {
		return fmt.Errorf("expense %q: payer: %w", r.ID, domain.ErrEmptyParticipantID)
	}
	if len(r.Participants) > MaxRecords {
		return fmt.Errorf("expense %q: %w: %d participants", r.ID, ErrTooManyRecords, len(r.Participants))
	}
	for i, p := range r.Participants {
		if p == "" {
			return fmt.Errorf("expense %q: participant %d: %w", r.ID, i, domain.ErrEmptyParticipantID)
		}
	}
	return nil
}

// ToDomain converts to a domain expense.
func (r *ExpenseRequest) ToDomain() domain.Expense {
	return domain.Expense{
		ID:           r.ID,
		PayerID:      r.PayerID,
		AmountCents:  r.AmountCents,
		Participants: r.Participants,
		Category:     r.Category,
		Description:  r.Description,
	}
}

// ExpensesRequest carries a batch of expenses.
type ExpensesRequest struct {
	Expenses []ExpenseRequest `json:"expenses"`
}

// Validate validates every expense and the batch size.
func (r *ExpensesRequest) Validate() error {
	if len(r.Expenses) > MaxRecords {
		return fmt.Errorf("%w: %d expenses", ErrTooManyRecords, len(r.Expenses))
	}
	for i := range r.Expenses {
		if err := r.Expenses[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ToDomain converts to domain expenses.
func (r *ExpensesRequest) ToDomain() []domain.Expense {
	expenses := make([]domain.Expense, len(r.Expenses))
	for i := range r.Expenses {
		expenses[i] = r.Expenses[i].ToDomain()
	}
	return expenses
}

// DebtRequest represents one debt in API requests.
type DebtRequest struct {
	Debtor      string       `json:"debtor"`
	Creditor    string       `json:"creditor"`
	AmountCents domain.Cents `json:"amount_cents"`
	ExpenseIDs  []string     `json:"expense_ids"`
}

// DebtsRequest carries a batch of debts.
type DebtsRequest struct {
	Debts []DebtRequest `json:"debts"`
}

// Validate checks ids and batch size. Amounts are not checked here since
// non-positive debts are meaningful to the validate endpoint.
func (r *DebtsRequest) Validate() error {
	if len(r.Debts) > MaxRecords {
		return fmt.Errorf("%w: %d debts", ErrTooManyRecords, len(r.Debts))
	}
	for i, d := range r.Debts {
		if d.Debtor == "" || d.Creditor == "" {
			return fmt.Errorf("debt %d: %w", i, domain.ErrEmptyParticipantID)
		}
	}
	return nil
}

// ToDomain converts to domain debts.
func (r *DebtsRequest) ToDomain() []domain.Debt {
	debts := make([]domain.Debt, len(r.Debts))
	for i, d := range r.Debts {
		ids := d.ExpenseIDs
		if ids == nil {
			ids = []string{}
		}
		debts[i] = domain.Debt{
			Debtor:      d.Debtor,
			Creditor:    d.Creditor,
			AmountCents: d.AmountCents,
			ExpenseIDs:  ids,
		}
	}
	return debts
}
