package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var repoStub = NewStubRepo()

func setup(t *testing.T) (Service, func()) {
	service := NewService(repoStub)
	return service, func() {
		t.Log("Teardown after test")
		repoStub.Cleanup()
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a transaction with a custom label category", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Transaction{
			Kind:        category.KindExpense,
			Amount:      12.5,
			CategoryRef: category.CustomLabel("Street food"),
			Date:        date(2026, time.March, 10),
		})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.Equal(t, "Street food", created.Category.Name)
	})

	t.Run("should resolve a referenced category", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		repoStub.WithCategory(category.Category{Id: 3, Name: "Groceries", Kind: category.KindExpense})

		// when
		created, err := service.Create(ctx, Transaction{
			Kind:        category.KindExpense,
			Amount:      80,
			CategoryRef: category.RefTo(3),
			Date:        date(2026, time.March, 11),
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Groceries", created.Category.Name)
	})

	t.Run("should reject a non-positive amount", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Transaction{Kind: category.KindExpense, Amount: 0})

		// then
		assert.Error(t, err)
	})

	t.Run("should default the date to now", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Transaction{Kind: category.KindIncome, Amount: 100})

		// then
		require.NoError(t, err)
		assert.False(t, created.Date.IsZero())
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Transaction{Kind: category.KindIncome, Amount: 100})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_Find(t *testing.T) {
	t.Run("should filter by kind and date range", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Transaction{Kind: category.KindIncome, Amount: 5000, Date: date(2026, time.February, 1)})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{Kind: category.KindExpense, Amount: 50, Date: date(2026, time.February, 2)})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{Kind: category.KindExpense, Amount: 75, Date: date(2026, time.March, 2)})
		require.NoError(t, err)

		// when
		found, err := service.Find(ctx, Filter{
			Kind: category.KindExpense,
			From: date(2026, time.February, 1),
			To:   date(2026, time.March, 1),
		})

		// then
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, 50.0, found[0].Amount)
	})
}

func TestStubRepo_MonthlySums(t *testing.T) {
	// given
	service, teardown := setup(t)
	defer teardown()
	_, err := service.Create(ctx, Transaction{Kind: category.KindIncome, Amount: 5000, Date: date(2026, time.January, 5)})
	require.NoError(t, err)
	_, err = service.Create(ctx, Transaction{Kind: category.KindExpense, Amount: 1200, Date: date(2026, time.January, 6)})
	require.NoError(t, err)
	_, err = service.Create(ctx, Transaction{Kind: category.KindExpense, Amount: 800, Date: date(2026, time.January, 20)})
	require.NoError(t, err)

	// when
	sums, err := repoStub.MonthlySums(ctx, 1, date(2026, time.January, 1), date(2026, time.February, 1))

	// then
	require.NoError(t, err)
	require.Len(t, sums, 2)
	for _, sum := range sums {
		switch sum.Kind {
		case category.KindIncome:
			assert.Equal(t, 5000.0, sum.Total)
		case category.KindExpense:
			assert.Equal(t, 2000.0, sum.Total)
		}
	}
}

func TestCsvRenderer_Render(t *testing.T) {
	// given
	renderer := NewCsvRenderer()
	transactions := []Transaction{
		{
			Kind:        category.KindExpense,
			Amount:      19.99,
			Category:    category.Category{Name: "Books"},
			Date:        date(2026, time.April, 3),
			Description: "paperback",
		},
		{
			Kind:     category.KindIncome,
			Amount:   5000,
			Category: category.Category{Name: "Salary"},
			Date:     date(2026, time.April, 1),
		},
	}

	// when
	csv, err := renderer.Render(transactions)

	// then
	require.NoError(t, err)
	assert.Contains(t, csv, "Date,Kind,Category,Amount,Description")
	assert.Contains(t, csv, "03/04/2026,expense,Books,-19.99,paperback")
	assert.Contains(t, csv, "01/04/2026,income,Salary,5000.00,")
}
