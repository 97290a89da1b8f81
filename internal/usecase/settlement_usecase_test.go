package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/settleup/internal/domain"
	"github.com/iho/settleup/internal/usecase"
	"github.com/iho/settleup/internal/usecase/mocks"
)

var chainDebts = []domain.Debt{
	{Debtor: "A", Creditor: "B", AmountCents: 10000, ExpenseIDs: []string{"exp1"}},
	{Debtor: "B", Creditor: "C", AmountCents: 10000, ExpenseIDs: []string{"exp2"}},
}

func newUseCase(cfg usecase.SettlementConfig) *usecase.SettlementUseCase {
	cfg.Logger = zerolog.Nop()
	return usecase.NewSettlementUseCase(cfg)
}

func TestSettlementUseCase_SplitExpense(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().RecordSplit(3)

	uc := newUseCase(usecase.SettlementConfig{Metrics: metrics})

	result, err := uc.SplitExpense(context.Background(), domain.Expense{
		ID:           "exp1",
		PayerID:      "A",
		AmountCents:  10000,
		Participants: []string{"A", "B", "C"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Cents(3333), result.PerPersonCents)
	assert.Equal(t, domain.Cents(1), result.RemainderCents)
	assert.True(t, result.Shares[0].ExtraCent)
}

func TestSettlementUseCase_CalculateBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().RecordBalances(4)

	uc := newUseCase(usecase.SettlementConfig{Metrics: metrics})

	balances, err := uc.CalculateBalances(context.Background(), []domain.Expense{
		{ID: "exp1", PayerID: "A", AmountCents: 10000, Participants: []string{"A", "B", "C", "D"}},
	})

	require.NoError(t, err)
	require.Len(t, balances, 4)
	assert.Equal(t, domain.Cents(7500), balances[0].NetBalanceCents)
}

func TestSettlementUseCase_OptimizeSettlements_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cache := mocks.NewMockResultCache(ctrl)
	metrics := mocks.NewMockMetricsRecorder(ctrl)

	var stored []byte
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, usecase.ErrCacheMiss)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), usecase.DefaultCacheTTL).
		DoAndReturn(func(_ context.Context, key string, value []byte, _ time.Duration) error {
			assert.True(t, strings.HasPrefix(key, "v1:"))
			stored = value
			return nil
		})
	metrics.EXPECT().RecordCacheLookup(false)
	metrics.EXPECT().RecordSimplification(2, 1, 50.0, gomock.Any())

	uc := newUseCase(usecase.SettlementConfig{Cache: cache, Metrics: metrics})

	result, err := uc.OptimizeSettlements(context.Background(), chainDebts)

	require.NoError(t, err)
	require.Len(t, result.Payments, 1)
	assert.Equal(t, "A", result.Payments[0].From)
	assert.Equal(t, "C", result.Payments[0].To)

	var decoded domain.SimplificationResult
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, *result, decoded)
}

func TestSettlementUseCase_OptimizeSettlements_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cached := domain.SimplificationResult{
		OriginalCount:  2,
		OptimizedCount: 1,
		Payments:       []domain.Payment{{From: "A", To: "C", AmountCents: 10000, Reason: "cached"}},
		SavingsPercent: 50,
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	cache := mocks.NewMockResultCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(data, nil)

	metrics := mocks.NewMockMetricsRecorder(ctrl)
	metrics.EXPECT().RecordCacheLookup(true)

	uc := newUseCase(usecase.SettlementConfig{Cache: cache, Metrics: metrics})

	result, err := uc.OptimizeSettlements(context.Background(), chainDebts)

	require.NoError(t, err)
	assert.Equal(t, cached, *result)
}

func TestSettlementUseCase_OptimizeSettlements_CacheFailuresAreIgnored(t *testing.T) {
	tests := []struct {
		name   string
		getRet []byte
		getErr error
	}{
		{name: "lookup error", getErr: errors.New("connection refused")},
		{name: "corrupt entry", getRet: []byte("{not json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			cache := mocks.NewMockResultCache(ctrl)
			cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.getRet, tt.getErr)
			cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("read only"))

			uc := newUseCase(usecase.SettlementConfig{Cache: cache})

			result, err := uc.OptimizeSettlements(context.Background(), chainDebts)

			require.NoError(t, err)
			assert.Equal(t, 1, result.OptimizedCount)
		})
	}
}

func TestSettlementUseCase_OptimizeSettlements_SameKeyForSameDebts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var keys []string
	cache := mocks.NewMockResultCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) ([]byte, error) {
			keys = append(keys, key)
			return nil, usecase.ErrCacheMiss
		}).Times(3)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

	uc := newUseCase(usecase.SettlementConfig{Cache: cache})
	ctx := context.Background()

	_, err := uc.OptimizeSettlements(ctx, chainDebts)
	require.NoError(t, err)
	_, err = uc.OptimizeSettlements(ctx, chainDebts)
	require.NoError(t, err)
	_, err = uc.OptimizeSettlements(ctx, chainDebts[:1])
	require.NoError(t, err)

	assert.Equal(t, keys[0], keys[1])
	assert.NotEqual(t, keys[0], keys[2])
}

func TestSettlementUseCase_OptimizeSettlements_WithoutCache(t *testing.T) {
	uc := newUseCase(usecase.SettlementConfig{})

	result, err := uc.OptimizeSettlements(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.OriginalCount)
	assert.Empty(t, result.Payments)
}

func TestSettlementUseCase_CancelledContext(t *testing.T) {
	uc := newUseCase(usecase.SettlementConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.OptimizeSettlements(ctx, chainDebts)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = uc.SplitExpense(ctx, domain.Expense{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = uc.SettleExpenses(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSettlementUseCase_ValidateDebts(t *testing.T) {
	uc := newUseCase(usecase.SettlementConfig{})

	assert.True(t, uc.ValidateDebts(context.Background(), chainDebts))
	assert.False(t, uc.ValidateDebts(context.Background(), []domain.Debt{{Debtor: "A", Creditor: "B"}}))
}

func TestSettlementUseCase_SettleExpenses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().Generate().Return("plan-1")

	uc := newUseCase(usecase.SettlementConfig{IDGen: idGen})

	plan, err := uc.SettleExpenses(context.Background(), []domain.Expense{
		{ID: "exp1", PayerID: "alice", AmountCents: 30000, Participants: []string{"alice", "bob", "charlie", "diana"}},
		{ID: "exp2", PayerID: "bob", AmountCents: 20000, Participants: []string{"alice", "bob", "charlie"}},
		{ID: "exp3", PayerID: "charlie", AmountCents: 15000, Participants: []string{"bob", "charlie", "diana"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	require.Len(t, plan.Balances, 4)

	var owedToCreditors domain.Cents
	for _, b := range plan.Balances {
		if b.NetBalanceCents > 0 {
			owedToCreditors += b.NetBalanceCents
		}
	}
	assert.Equal(t, owedToCreditors, plan.Result.TotalCents())
	assert.Equal(t, len(plan.Debts), plan.Result.OriginalCount)
	assert.LessOrEqual(t, plan.Result.OptimizedCount, 3)
}
