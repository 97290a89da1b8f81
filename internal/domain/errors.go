package domain

import "errors"

var (
	// Debt errors
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEmptyParticipantID = errors.New("participant id cannot be empty")

	// Balance errors
	ErrBalanceNotConserved = errors.New("net balances do not sum to zero")
)
