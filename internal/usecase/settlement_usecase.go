package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/settleup/internal/domain"
)

// SettlementPlan is the full settlement for a set of expenses.
type SettlementPlan struct {
	ID       string                      `json:"id"`
	Balances []domain.BalanceSummary     `json:"balances"`
	Debts    []domain.Debt               `json:"debts"`
	Result   domain.SimplificationResult `json:"result"`
}

// SettlementConfig holds the dependencies of SettlementUseCase.
type SettlementConfig struct {
	Cache    ResultCache // optional
	IDGen    IDGenerator
	Metrics  MetricsRecorder // optional
	Logger   zerolog.Logger
	CacheTTL time.Duration
}

// SettlementUseCase exposes the settlement engine to transports.
type SettlementUseCase struct {
	cache    ResultCache
	idGen    IDGenerator
	metrics  MetricsRecorder
	logger   zerolog.Logger
	cacheTTL time.Duration
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(cfg SettlementConfig) *SettlementUseCase {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	return &SettlementUseCase{
		cache:    cfg.Cache,
		idGen:    cfg.IDGen,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		cacheTTL: cfg.CacheTTL,
	}
}

// SplitExpense splits a single expense among its participants.
func (uc *SettlementUseCase) SplitExpense(ctx context.Context, expense domain.Expense) (*domain.ShareResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := domain.SplitExpense(expense)
	if uc.metrics != nil {
		uc.metrics.RecordSplit(len(expense.Participants))
	}

	return &result, nil
}

// CalculateBalances aggregates net balances across expenses.
func (uc *SettlementUseCase) CalculateBalances(ctx context.Context, expenses []domain.Expense) ([]domain.BalanceSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	balances := domain.CalculateBalances(expenses)
	if err := domain.CheckConservation(balances); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordBalances(len(balances))
	}

	return balances, nil
}

// OptimizeSettlements reduces debts to a minimal payment list.
// Results are served from the cache when one is configured.
func (uc *SettlementUseCase) OptimizeSettlements(ctx context.Context, debts []domain.Debt) (*domain.SimplificationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, keyErr := cacheKey(debts)
	if uc.cache != nil && keyErr == nil {
		if cached, ok := uc.lookup(ctx, key); ok {
			return cached, nil
		}
	}

	start := time.Now()
	result := domain.SimplifyDebts(debts)

	if uc.metrics != nil {
		uc.metrics.RecordSimplification(result.OriginalCount, result.OptimizedCount, result.SavingsPercent, time.Since(start))
	}

	uc.logger.Debug().
		Int("original_count", result.OriginalCount).
		Int("optimized_count", result.OptimizedCount).
		Float64("savings_percent", result.SavingsPercent).
		Msg("debts simplified")

	if uc.cache != nil && keyErr == nil {
		uc.store(ctx, key, &result)
	}

	return &result, nil
}

// ValidateDebts reports whether every debt has a positive amount.
func (uc *SettlementUseCase) ValidateDebts(_ context.Context, debts []domain.Debt) bool {
	return domain.ValidateDebts(debts)
}

// SettleExpenses runs the whole pipeline: balances, pairwise debts and
// simplified payments.
func (uc *SettlementUseCase) SettleExpenses(ctx context.Context, expenses []domain.Expense) (*SettlementPlan, error) {
	balances, err := uc.CalculateBalances(ctx, expenses)
	if err != nil {
		return nil, err
	}

	debts := domain.DebtsFromBalances(balances)

	result, err := uc.OptimizeSettlements(ctx, debts)
	if err != nil {
		return nil, err
	}

	plan := &SettlementPlan{
		ID:       uc.idGen.Generate(),
		Balances: balances,
		Debts:    debts,
		Result:   *result,
	}

	uc.logger.Info().
		Str("plan_id", plan.ID).
		Int("expenses", len(expenses)).
		Int("payments", result.OptimizedCount).
		Msg("settlement plan created")

	return plan, nil
}

func (uc *SettlementUseCase) lookup(ctx context.Context, key string) (*domain.SimplificationResult, bool) {
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			uc.logger.Warn().Err(err).Msg("result cache lookup failed")
		}
		uc.recordCache(false)
		return nil, false
	}

	var result domain.SimplificationResult
	if err := json.Unmarshal(data, &result); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt cache entry")
		uc.recordCache(false)
		return nil, false
	}

	uc.recordCache(true)
	return &result, true
}

func (uc *SettlementUseCase) store(ctx context.Context, key string, result *domain.SimplificationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("failed to encode simplification result")
		return
	}

	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Msg("result cache write failed")
	}
}

func (uc *SettlementUseCase) recordCache(hit bool) {
	if uc.metrics != nil {
		uc.metrics.RecordCacheLookup(hit)
	}
}

// cacheKey hashes the JSON encoding of debts.
func cacheKey(debts []domain.Debt) (string, error) {
	data, err := json.Marshal(debts)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}
