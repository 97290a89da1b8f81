package domain

import (
	"fmt"
	"slices"
)

// BalanceSummary is one participant's net position across a set of expenses.
// Positive net means others owe them, negative means they owe others.
type BalanceSummary struct {
	AttendeeID      string `json:"attendee_id"`
	TotalPaidCents  Cents  `json:"total_paid_cents"`
	TotalOwedCents  Cents  `json:"total_owed_cents"`
	NetBalanceCents Cents  `json:"net_balance_cents"`
}

// CalculateBalances computes paid, owed and net totals per participant.
//
// The payer is credited the full amount of each expense and every share is
// debited to its participant, with no netting for a payer who also
// participates. The result covers every payer and participant, sorted by id.
func CalculateBalances(expenses []Expense) []BalanceSummary {
	paid := make(map[string]Cents)
	owed := make(map[string]Cents)

	for _, expense := range expenses {
		paid[expense.PayerID] += expense.AmountCents

		for _, share := range SplitExpense(expense).Shares {
			owed[share.AttendeeID] += share.ShareCents
		}
	}

	ids := make([]string, 0, len(paid)+len(owed))
	for id := range paid {
		ids = append(ids, id)
	}
	for id := range owed {
		if _, ok := paid[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	balances := make([]BalanceSummary, len(ids))
	for i, id := range ids {
		balances[i] = BalanceSummary{
			AttendeeID:      id,
			TotalPaidCents:  paid[id],
			TotalOwedCents:  owed[id],
			NetBalanceCents: paid[id] - owed[id],
		}
	}

	return balances
}

// CheckConservation verifies that net balances sum to zero.
func CheckConservation(balances []BalanceSummary) error {
	var sum Cents
	for _, b := range balances {
		sum += b.NetBalanceCents
	}
	if sum != 0 {
		return fmt.Errorf("%w: off by %d", ErrBalanceNotConserved, sum)
	}
	return nil
}
