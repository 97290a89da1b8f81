package domain

// Expense is one group purchase paid by a single payer.
type Expense struct {
	ID           string   `json:"id"`
	PayerID      string   `json:"payer_id"`
	AmountCents  Cents    `json:"amount_cents"`
	Participants []string `json:"participants"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
}

// PersonShare is one participant's allocation of an expense.
type PersonShare struct {
	AttendeeID string `json:"attendee_id"`
	ShareCents Cents  `json:"share_cents"`
	ExtraCent  bool   `json:"extra_cent"`
}

// ShareResult is the outcome of splitting one expense.
type ShareResult struct {
	PerPersonCents Cents         `json:"per_person_cents"`
	Shares         []PersonShare `json:"shares"`
	RemainderCents Cents         `json:"remainder_cents"`
}

// SplitExpense divides the expense amount among its participants.
//
// Every participant gets the floor of amount/len(participants); the leftover
// units go one each to the first participants in list order. Duplicate ids
// are separate slots. The shares always sum to the expense amount, negative
// amounts included.
func SplitExpense(expense Expense) ShareResult {
	n := Cents(len(expense.Participants))
	if n == 0 {
		return ShareResult{Shares: []PersonShare{}}
	}

	base, remainder := floorDivMod(expense.AmountCents, n)

	shares := make([]PersonShare, len(expense.Participants))
	for i, participant := range expense.Participants {
		extra := Cents(i) < remainder
		share := base
		if extra {
			share++
		}
		shares[i] = PersonShare{
			AttendeeID: participant,
			ShareCents: share,
			ExtraCent:  extra,
		}
	}

	return ShareResult{
		PerPersonCents: base,
		Shares:         shares,
		RemainderCents: remainder,
	}
}

// Total returns the sum of all shares.
func (r ShareResult) Total() Cents {
	var total Cents
	for _, s := range r.Shares {
		total += s.ShareCents
	}
	return total
}
