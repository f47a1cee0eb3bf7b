package category

import (
	"context"
	"testing"

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

func TestResolve(t *testing.T) {
	t.Run("should return the stored category for a referenced ref", func(t *testing.T) {
		// given
		stored := Category{Id: 7, Name: "Groceries", Kind: KindExpense, Icon: "cart"}

		// when
		resolved := Resolve(RefTo(7), &stored)

		// then
		assert.Equal(t, stored, resolved)
	})

	t.Run("should synthesize a category for a custom label", func(t *testing.T) {
		// when
		resolved := Resolve(CustomLabel("Street food"), nil)

		// then
		assert.Equal(t, "Street food", resolved.Name)
		assert.Zero(t, resolved.Id)
	})

	t.Run("should fall back to Uncategorized when the referenced category is gone", func(t *testing.T) {
		// when
		resolved := Resolve(RefTo(42), nil)

		// then
		assert.Equal(t, "Uncategorized", resolved.Name)
	})
}

func TestRef(t *testing.T) {
	assert.True(t, CustomLabel("Coffee").IsCustom())
	assert.False(t, RefTo(3).IsCustom())
	assert.True(t, Ref{}.IsZero())
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should create a category", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Category{Name: "Rent", Kind: KindExpense})

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
	})

	t.Run("should reject an invalid kind", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, Category{Name: "Rent", Kind: "transfer"})

		// then
		assert.Error(t, err)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Category{Name: "Rent", Kind: KindExpense})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_GetAll(t *testing.T) {
	t.Run("should filter by kind", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		_, err := service.Create(ctx, Category{Name: "Salary", Kind: KindIncome})
		require.NoError(t, err)
		_, err = service.Create(ctx, Category{Name: "Food", Kind: KindExpense})
		require.NoError(t, err)

		// when
		expenses, err := service.GetAll(ctx, KindExpense)

		// then
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Food", expenses[0].Name)
	})
}
