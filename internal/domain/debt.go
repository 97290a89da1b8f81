package domain

import "fmt"

// Debt is a directed obligation from debtor to creditor.
type Debt struct {
	Debtor      string   `json:"debtor"`
	Creditor    string   `json:"creditor"`
	AmountCents Cents    `json:"amount_cents"`
	ExpenseIDs  []string `json:"expense_ids"`
}

// Validate validates a single debt.
func (d *Debt) Validate() error {
	if d.Debtor == "" || d.Creditor == "" {
		return ErrEmptyParticipantID
	}

	if d.AmountCents <= 0 {
		return fmt.Errorf("%w: %s owes %s %d", ErrInvalidAmount, d.Debtor, d.Creditor, d.AmountCents)
	}

	return nil
}

// ValidateDebts reports whether every debt carries a positive amount.
func ValidateDebts(debts []Debt) bool {
	for _, d := range debts {
		if d.AmountCents <= 0 {
			return false
		}
	}
	return true
}

// NetBalances returns the net position of every participant named in debts.
// Debtors lose the amount and creditors gain it, so repeated pairs add up and
// opposite debts between the same two people cancel.
func NetBalances(debts []Debt) map[string]Cents {
	balances := make(map[string]Cents)
	for _, d := range debts {
		balances[d.Debtor] -= d.AmountCents
		balances[d.Creditor] += d.AmountCents
	}
	return balances
}

// DebtsFromBalances turns aggregated balances into pairwise debts from
// debtors to creditors, using the same matching as SimplifyDebts.
func DebtsFromBalances(balances []BalanceSummary) []Debt {
	net := make(map[string]Cents, len(balances))
	for _, b := range balances {
		net[b.AttendeeID] += b.NetBalanceCents
	}

	debts := make([]Debt, 0)
	creditors, debtors := partition(net)
	match(creditors, debtors, func(from, to string, amount Cents) {
		debts = append(debts, Debt{
			Debtor:      from,
			Creditor:    to,
			AmountCents: amount,
			ExpenseIDs:  []string{},
		})
	})

	return debts
}
