package recommendation

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

var (
	userRepoStub        = user.NewStubUserRepo()
	transactionRepoStub = transaction.NewStubRepo()
	clock               = &utils.MockClock{FixedNow: time.Date(2026, time.June, 17, 10, 0, 0, 0, time.UTC)}
)

func setup(t *testing.T, monthlyIncome float64) (Service, context.Context, func()) {
	userService := user.NewUserService(userRepoStub)
	created, err := userService.CreateUser(context.Background(), user.User{
		Username: "maria",
		Settings: user.Settings{Currency: "EUR", MonthlyIncome: monthlyIncome},
	})
	require.NoError(t, err)
	ctx := user.WithUser(context.Background(), created)

	service := NewService(transactionRepoStub, userService, clock)
	return service, ctx, func() {
		t.Log("Teardown after test")
		userRepoStub.Cleanup()
		transactionRepoStub.Cleanup()
	}
}

func storeExpense(t *testing.T, ctx context.Context, categoryId int, amount float64, date time.Time) {
	userId, err := user.CurrentId(ctx)
	require.NoError(t, err)
	_, err = transactionRepoStub.Store(ctx, userId, transaction.Transaction{
		Kind:        category.KindExpense,
		Amount:      amount,
		CategoryRef: category.RefTo(categoryId),
		Date:        date,
	})
	require.NoError(t, err)
}

func TestRecommendationServiceImpl_Generate(t *testing.T) {
	t.Run("healthy savings rate yields only the savings-rate note", func(t *testing.T) {
		service, ctx, teardown := setup(t, 5000)
		defer teardown()
		food := category.Category{Id: 1, Name: "Food", Kind: category.KindExpense}
		transactionRepoStub.WithCategory(food)
		rent := category.Category{Id: 2, Name: "Rent", Kind: category.KindExpense}
		transactionRepoStub.WithCategory(rent)
		now := clock.Now()
		for month := 0; month < 3; month++ {
			storeExpense(t, ctx, food.Id, 1800, now.AddDate(0, -month, -2))
			storeExpense(t, ctx, rent.Id, 1500, now.AddDate(0, -month, -2))
		}

		// when
		summary, err := service.Generate(ctx)

		// then
		require.NoError(t, err)
		assert.InDelta(t, 3300, summary.CurrentExpenses, 0.001)
		assert.InDelta(t, 0.34, summary.CurrentSavingsRate, 0.001)
		require.Len(t, summary.Recommendations, 1)
		assert.Equal(t, TypeSavingsRate, summary.Recommendations[0].Type)
		assert.Contains(t, summary.Recommendations[0].Message, "34.0%")
		assert.Contains(t, summary.Recommendations[0].Message, "20%")
	})

	t.Run("low savings rate proposes capped proportional reductions", func(t *testing.T) {
		service, ctx, teardown := setup(t, 3000)
		defer teardown()
		food := category.Category{Id: 1, Name: "Food", Kind: category.KindExpense}
		transactionRepoStub.WithCategory(food)
		rent := category.Category{Id: 2, Name: "Rent", Kind: category.KindExpense}
		transactionRepoStub.WithCategory(rent)
		now := clock.Now()
		for month := 0; month < 3; month++ {
			storeExpense(t, ctx, food.Id, 1800, now.AddDate(0, -month, -2))
			storeExpense(t, ctx, rent.Id, 1200, now.AddDate(0, -month, -2))
		}

		// when
		summary, err := service.Generate(ctx)

		// then
		require.NoError(t, err)
		// savings rate 0 vs target 20%, reductions capped at 10% of each spend
		var reductions []Recommendation
		for _, rec := range summary.Recommendations {
			if rec.Type == TypeReduceExpense {
				reductions = append(reductions, rec)
			}
		}
		require.Len(t, reductions, 2)
		assert.Equal(t, "Food", reductions[0].CategoryName)
		assert.InDelta(t, 180, reductions[0].Savings, 0.001)
		assert.InDelta(t, 1620, reductions[0].RecommendedAmount, 0.001)
		assert.InDelta(t, 120, reductions[1].Savings, 0.001)
	})

	t.Run("zero income yields a set-income prompt and rate 0", func(t *testing.T) {
		service, ctx, teardown := setup(t, 0)
		defer teardown()
		food := category.Category{Id: 1, Name: "Food", Kind: category.KindExpense}
		transactionRepoStub.WithCategory(food)
		storeExpense(t, ctx, food.Id, 500, clock.Now().AddDate(0, 0, -5))

		// when
		summary, err := service.Generate(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, 0.0, summary.CurrentSavingsRate)
		types := make([]Type, 0, len(summary.Recommendations))
		for _, rec := range summary.Recommendations {
			types = append(types, rec.Type)
		}
		assert.Equal(t, []Type{TypeSavingsRate, TypeSetIncome}, types)
	})

	t.Run("no transactions still yields the savings-rate note", func(t *testing.T) {
		service, ctx, teardown := setup(t, 4000)
		defer teardown()

		// when
		summary, err := service.Generate(ctx)

		// then
		require.NoError(t, err)
		assert.Empty(t, summary.Breakdown)
		require.Len(t, summary.Recommendations, 1)
		assert.Equal(t, TypeSavingsRate, summary.Recommendations[0].Type)
	})

	t.Run("fails without a user in context", func(t *testing.T) {
		service, _, teardown := setup(t, 4000)
		defer teardown()

		_, err := service.Generate(context.Background())

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}
