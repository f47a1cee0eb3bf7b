package budget

import (
	"context"
	"testing"
	"time"

	"github.com/finsight/finsight/internal/utils"
	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/transaction"
	"github.com/finsight/finsight/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var (
	budgetRepoStub      = NewStubBudgetRepo()
	categoryRepoStub    = category.NewStubRepo()
	transactionRepoStub = transaction.NewStubRepo()
	clock               = &utils.MockClock{FixedNow: time.Date(2026, time.June, 17, 10, 0, 0, 0, time.UTC)}
)

func setup(t *testing.T) (BudgetService, int, func()) {
	service := NewBudgetService(budgetRepoStub, categoryRepoStub, transactionRepoStub, clock)
	categoryId, err := categoryRepoStub.Store(ctx, 1, category.Category{Name: "Food", Kind: category.KindExpense})
	require.NoError(t, err)
	return service, categoryId, func() {
		t.Log("Teardown after test")
		budgetRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
		transactionRepoStub.Cleanup()
	}
}

func TestPeriod_Start(t *testing.T) {
	now := time.Date(2026, time.June, 17, 10, 30, 0, 0, time.UTC) // a Wednesday

	assert.Equal(t, time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC), PeriodWeekly.Start(now))
	assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), PeriodMonthly.Start(now))
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), PeriodYearly.Start(now))
}

func TestBudgetServiceImpl_Create(t *testing.T) {
	t.Run("should create a budget", func(t *testing.T) {
		service, categoryId, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Budget{CategoryId: categoryId, Amount: 500, Period: PeriodMonthly, Active: true})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
	})

	t.Run("should reject a second active budget for the same category and period", func(t *testing.T) {
		service, categoryId, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Amount: 500, Period: PeriodMonthly, Active: true})
		require.NoError(t, err)

		// when
		_, err = service.Create(ctx, Budget{CategoryId: categoryId, Amount: 300, Period: PeriodMonthly, Active: true})

		// then
		assert.ErrorIs(t, err, ErrDuplicateActive)
	})

	t.Run("should allow an active budget for the same category with a different period", func(t *testing.T) {
		service, categoryId, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Amount: 500, Period: PeriodMonthly, Active: true})
		require.NoError(t, err)

		// when
		_, err = service.Create(ctx, Budget{CategoryId: categoryId, Amount: 6000, Period: PeriodYearly, Active: true})

		// then
		assert.NoError(t, err)
	})

	t.Run("should reject an unknown category", func(t *testing.T) {
		service, _, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Budget{CategoryId: 999, Amount: 500, Period: PeriodMonthly, Active: true})

		// then
		assert.Error(t, err)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, categoryId, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Budget{CategoryId: categoryId, Amount: 500, Period: PeriodMonthly})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestBudgetServiceImpl_CurrentStatus(t *testing.T) {
	t.Run("should report spend within the current period only", func(t *testing.T) {
		service, categoryId, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Budget{CategoryId: categoryId, Amount: 500, Period: PeriodMonthly, Active: true})
		require.NoError(t, err)

		transactionRepoStub.WithCategory(category.Category{Id: categoryId, Name: "Food", Kind: category.KindExpense})
		_, err = transactionRepoStub.Store(ctx, 1, transaction.Transaction{
			Kind:        category.KindExpense,
			Amount:      120,
			CategoryRef: category.RefTo(categoryId),
			Date:        time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		// previous month, must not count
		_, err = transactionRepoStub.Store(ctx, 1, transaction.Transaction{
			Kind:        category.KindExpense,
			Amount:      300,
			CategoryRef: category.RefTo(categoryId),
			Date:        time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)

		// when
		statuses, err := service.CurrentStatus(ctx)

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, 120.0, statuses[0].Spent)
		assert.Equal(t, 380.0, statuses[0].Remaining)
		assert.Equal(t, "Food", statuses[0].CategoryName)
	})
}
