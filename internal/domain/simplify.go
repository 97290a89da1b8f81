package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Payment is a settlement instruction from one participant to another.
type Payment struct {
	From        string `json:"from"`
	To          string `json:"to"`
	AmountCents Cents  `json:"amount_cents"`
	Reason      string `json:"reason"`
}

// SimplificationResult is the outcome of SimplifyDebts.
type SimplificationResult struct {
	OriginalCount  int       `json:"original_count"`
	OptimizedCount int       `json:"optimized_count"`
	Payments       []Payment `json:"payments"`
	SavingsPercent float64   `json:"savings_percent"`
}

// TotalCents returns the sum of all payment amounts.
func (r SimplificationResult) TotalCents() Cents {
	var total Cents
	for _, p := range r.Payments {
		total += p.AmountCents
	}
	return total
}

// SimplifyDebts reduces a set of debts to the fewest payments that settle
// every participant's net balance.
//
// Creditors and debtors are each sorted by outstanding amount, largest first,
// with ties broken by participant id. The largest debtor then pays the
// largest creditor the smaller of the two amounts, and whoever reaches zero
// is dropped. Each payment settles at least one participant, so n
// participants with a nonzero balance need at most n-1 payments.
func SimplifyDebts(debts []Debt) SimplificationResult {
	result := SimplificationResult{
		OriginalCount: len(debts),
		Payments:      make([]Payment, 0),
	}
	if len(debts) == 0 {
		return result
	}

	creditors, debtors := partition(NetBalances(debts))
	match(creditors, debtors, func(from, to string, amount Cents) {
		result.Payments = append(result.Payments, Payment{
			From:        from,
			To:          to,
			AmountCents: amount,
			Reason:      fmt.Sprintf("Settlement: %s pays %s $%s", from, to, FormatCents(amount)),
		})
	})

	result.OptimizedCount = len(result.Payments)
	result.SavingsPercent = float64(result.OriginalCount-result.OptimizedCount) / float64(result.OriginalCount) * 100

	return result
}

// position is an outstanding amount, always positive, owed to or by one participant.
type position struct {
	id     string
	amount Cents
}

// partition splits net balances into creditors and debtors in matching order.
// Settled participants are dropped.
func partition(net map[string]Cents) (creditors, debtors []position) {
	for id, balance := range net {
		switch {
		case balance > 0:
			creditors = append(creditors, position{id: id, amount: balance})
		case balance < 0:
			debtors = append(debtors, position{id: id, amount: -balance})
		}
	}

	slices.SortFunc(creditors, comparePositions)
	slices.SortFunc(debtors, comparePositions)

	return creditors, debtors
}

// comparePositions orders by amount descending, then by id.
func comparePositions(a, b position) int {
	if c := cmp.Compare(b.amount, a.amount); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}

// match runs the greedy pairing and calls emit for every nonzero transfer.
func match(creditors, debtors []position, emit func(from, to string, amount Cents)) {
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		creditor, debtor := &creditors[ci], &debtors[di]

		amount := min(creditor.amount, debtor.amount)
		if amount > 0 {
			emit(debtor.id, creditor.id, amount)
			creditor.amount -= amount
			debtor.amount -= amount
		}

		if creditor.amount == 0 {
			ci++
		}
		if debtor.amount == 0 {
			di++
		}
	}
}
