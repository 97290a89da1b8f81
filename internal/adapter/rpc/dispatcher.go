// Package rpc implements the method + JSON params envelope used by
// tool-calling clients. Every supported method is bound to a typed operation
// when the Dispatcher is built; failures are reported inside the envelope.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/iho/settleup/internal/domain"
	"github.com/iho/settleup/internal/usecase"
)

// Method names a supported operation.
type Method string

const (
	MethodOptimizeSettlements Method = "optimize_settlements"
	MethodValidateDebts       Method = "validate_debts"
	MethodSplitExpense        Method = "split_expense"
	MethodCalculateBalances   Method = "calculate_balances"
	MethodSettleExpenses      Method = "settle_expenses"
)

// SettlementService is the application API the dispatcher routes to.
type SettlementService interface {
	SplitExpense(ctx context.Context, expense domain.Expense) (*domain.ShareResult, error)
	CalculateBalances(ctx context.Context, expenses []domain.Expense) ([]domain.BalanceSummary, error)
	OptimizeSettlements(ctx context.Context, debts []domain.Debt) (*domain.SimplificationResult, error)
	ValidateDebts(ctx context.Context, debts []domain.Debt) bool
	SettleExpenses(ctx context.Context, expenses []domain.Expense) (*usecase.SettlementPlan, error)
}

// Request is an RPC call. Params holds the JSON-encoded method parameters.
type Request struct {
	Method string `json:"method"`
	Params string `json:"params"`
}

// Response is the RPC reply envelope.
type Response struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ParseError reports params that could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "Parse error: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type operation interface {
	invoke(ctx context.Context, params string) (any, error)
}

// typedOperation decodes params into P before calling the service.
type typedOperation[P, R any] func(ctx context.Context, params P) (R, error)

func (op typedOperation[P, R]) invoke(ctx context.Context, raw string) (any, error) {
	var params P
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, &ParseError{Err: err}
	}
	return op(ctx, params)
}

// Dispatcher routes requests to the settlement service.
type Dispatcher struct {
	ops    map[Method]operation
	logger zerolog.Logger
}

// NewDispatcher creates a Dispatcher bound to svc.
func NewDispatcher(svc SettlementService, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		ops: map[Method]operation{
			MethodOptimizeSettlements: typedOperation[[]domain.Debt, *domain.SimplificationResult](svc.OptimizeSettlements),
			MethodValidateDebts: typedOperation[[]domain.Debt, bool](func(ctx context.Context, debts []domain.Debt) (bool, error) {
				return svc.ValidateDebts(ctx, debts), nil
			}),
			MethodSplitExpense:      typedOperation[domain.Expense, *domain.ShareResult](svc.SplitExpense),
			MethodCalculateBalances: typedOperation[[]domain.Expense, []domain.BalanceSummary](svc.CalculateBalances),
			MethodSettleExpenses:    typedOperation[[]domain.Expense, *usecase.SettlementPlan](svc.SettleExpenses),
		},
		logger: logger,
	}
}

// Methods returns the supported method names in sorted order.
func (d *Dispatcher) Methods() []Method {
	methods := make([]Method, 0, len(d.ops))
	for m := range d.ops {
		methods = append(methods, m)
	}
	slices.Sort(methods)
	return methods
}

// Dispatch executes a request. It never fails; errors are returned in the envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	op, ok := d.ops[Method(req.Method)]
	if !ok {
		d.logger.Warn().Str("method", req.Method).Msg("unknown rpc method")
		return failure(fmt.Sprintf("Unknown method: %s", req.Method))
	}

	result, err := op.invoke(ctx, req.Params)
	if err != nil {
		d.logger.Debug().Err(err).Str("method", req.Method).Msg("rpc call failed")
		return failure(err.Error())
	}

	data, err := json.Marshal(result)
	if err != nil {
		return failure(fmt.Sprintf("Serialization error: %s", err))
	}

	return Response{Success: true, Result: data}
}

// DispatchJSON decodes a raw envelope and executes it.
func (d *Dispatcher) DispatchJSON(ctx context.Context, body []byte) Response {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return failure((&ParseError{Err: err}).Error())
	}
	return d.Dispatch(ctx, req)
}

func failure(msg string) Response {
	return Response{Success: false, Error: msg}
}
