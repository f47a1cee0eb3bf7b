package forecast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/utils"
	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/transaction"
	"github.com/finsight/finsight/pkg/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = user.WithUser(context.Background(), user.User{Id: 1})

var (
	transactionRepoStub = transaction.NewStubRepo()
	categoryRepoStub    = category.NewStubRepo()
	predictionRepoStub  = NewStubPredictionRepo()
	clock               = &utils.MockClock{FixedNow: time.Date(2026, time.June, 17, 10, 0, 0, 0, time.UTC)}
)

func setup(t *testing.T, mlClient MLClient) (Service, func()) {
	cfg := config.Forecast{DailyLookbackMonths: 1, WeeklyLookbackMonths: 3, YearlyLookbackYears: 3}
	service := NewService(transactionRepoStub, categoryRepoStub, predictionRepoStub, mlClient, cfg, clock)
	return service, func() {
		t.Log("Teardown after test")
		transactionRepoStub.Cleanup()
		categoryRepoStub.Cleanup()
		predictionRepoStub.Cleanup()
	}
}

func storeExpenses(t *testing.T, ref category.Ref, amounts []float64, lastDate time.Time) {
	for i, amount := range amounts {
		_, err := transactionRepoStub.Store(ctx, 1, transaction.Transaction{
			Kind:        category.KindExpense,
			Amount:      amount,
			CategoryRef: ref,
			Date:        lastDate.AddDate(0, 0, -30*(len(amounts)-1-i)),
		})
		require.NoError(t, err)
	}
}

func TestForecastServiceImpl_Generate(t *testing.T) {
	t.Run("should produce one expense prediction per category", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()
		now := clock.Now()
		storeExpenses(t, category.RefTo(1), []float64{100, 100, 100}, now.AddDate(0, 0, -1))
		storeExpenses(t, category.CustomLabel("Books"), []float64{20}, now.AddDate(0, 0, -3))

		// when
		predictions, err := service.Generate(ctx, PeriodMonthly)

		// then
		require.NoError(t, err)
		require.Len(t, predictions, 3) // two expense categories plus savings
		byRef := map[category.Ref]Prediction{}
		for _, p := range predictions {
			byRef[p.Category] = p
		}
		food := byRef[category.RefTo(1)]
		assert.Equal(t, KindExpense, food.Kind)
		assert.Equal(t, ModelLinearRegression, food.Model)
		assert.InDelta(t, 100, food.Amount, 0.001)
		books := byRef[category.CustomLabel("Books")]
		assert.Equal(t, 0.3, books.Confidence)
		assert.InDelta(t, 20, books.Amount, 0.001)
	})

	t.Run("should include a savings prediction from monthly history", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()
		now := clock.Now()
		_, err := transactionRepoStub.Store(ctx, 1, transaction.Transaction{
			Kind: category.KindIncome, Amount: 5000, CategoryRef: category.CustomLabel("Salary"), Date: now.AddDate(0, 0, -5),
		})
		require.NoError(t, err)
		storeExpenses(t, category.RefTo(1), []float64{3000}, now.AddDate(0, 0, -4))

		// when
		predictions, err := service.Generate(ctx, PeriodMonthly)

		// then
		require.NoError(t, err)
		var savings *Prediction
		for i := range predictions {
			if predictions[i].Kind == KindSavings {
				savings = &predictions[i]
			}
		}
		require.NotNil(t, savings)
		assert.Equal(t, ModelTimeSeriesAnalysis, savings.Model)
		assert.InDelta(t, 2000, savings.Amount, 0.001)
		assert.Equal(t, 0.4, savings.Confidence)
	})

	t.Run("should set the validity window from the period", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()
		now := clock.Now()
		storeExpenses(t, category.RefTo(1), []float64{50}, now.AddDate(0, 0, -2))

		// when
		predictions, err := service.Generate(ctx, PeriodWeekly)

		// then
		require.NoError(t, err)
		require.NotEmpty(t, predictions)
		assert.Equal(t, now, predictions[0].ValidFrom)
		assert.Equal(t, now.Add(7*24*time.Hour), predictions[0].ValidUntil)
		assert.NotEmpty(t, predictions[0].Uid)
	})

	t.Run("should reject an unknown period", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()

		_, err := service.Generate(ctx, Period("quarterly"))

		assert.Error(t, err)
	})

	t.Run("should return an empty batch when there is no history", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()

		predictions, err := service.Generate(ctx, PeriodMonthly)

		require.NoError(t, err)
		assert.Empty(t, predictions)
	})

	t.Run("should fail without a user in context", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()

		_, err := service.Generate(context.Background(), PeriodMonthly)

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestForecastServiceImpl_Generate_MLService(t *testing.T) {
	t.Run("should prefer the external forecast when the service responds", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"date":"2026-07-01T00:00:00Z","yhat":123.45,"yhat_lower":100,"yhat_upper":150}]`))
		}))
		defer server.Close()
		mlClient := NewMLClient(config.Forecast{MLServiceUrl: server.URL, MLTimeoutSeconds: 2})
		service, teardown := setup(t, mlClient)
		defer teardown()
		storeExpenses(t, category.RefTo(1), []float64{100, 100, 100}, clock.Now().AddDate(0, 0, -1))

		// when
		predictions, err := service.Generate(ctx, PeriodMonthly)

		// then
		require.NoError(t, err)
		var expense *Prediction
		for i := range predictions {
			if predictions[i].Kind == KindExpense {
				expense = &predictions[i]
			}
		}
		require.NotNil(t, expense)
		assert.Equal(t, ModelProphet, expense.Model)
		assert.InDelta(t, 123.45, expense.Amount, 0.001)
	})

	t.Run("should fall back to the heuristic when the service errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model unavailable", http.StatusInternalServerError)
		}))
		defer server.Close()
		mlClient := NewMLClient(config.Forecast{MLServiceUrl: server.URL, MLTimeoutSeconds: 2})
		service, teardown := setup(t, mlClient)
		defer teardown()
		storeExpenses(t, category.RefTo(1), []float64{100, 100, 100}, clock.Now().AddDate(0, 0, -1))

		// when
		predictions, err := service.Generate(ctx, PeriodMonthly)

		// then
		require.NoError(t, err)
		require.NotEmpty(t, predictions)
		assert.Equal(t, ModelLinearRegression, predictions[0].Model)
		assert.InDelta(t, 100, predictions[0].Amount, 0.001)
	})
}

func TestForecastServiceImpl_Latest(t *testing.T) {
	t.Run("should return only the newest prediction per category", func(t *testing.T) {
		service, teardown := setup(t, nil)
		defer teardown()
		storeExpenses(t, category.RefTo(1), []float64{100, 100, 100}, clock.Now().AddDate(0, 0, -1))
		_, err := service.Generate(ctx, PeriodMonthly)
		require.NoError(t, err)
		_, err = service.Generate(ctx, PeriodMonthly)
		require.NoError(t, err)

		// when
		latest, err := service.Latest(ctx, KindExpense, PeriodMonthly)

		// then
		require.NoError(t, err)
		assert.Len(t, latest, 1)
	})
}
