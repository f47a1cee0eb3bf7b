package forecast

import (
	"testing"
	"time"

	"github.com/finsight/finsight/pkg/transaction"
	"github.com/stretchr/testify/assert"
)

func expenseAt(amount float64, date time.Time) transaction.Transaction {
	return transaction.Transaction{Amount: amount, Date: date}
}

func TestCategoryForecast(t *testing.T) {
	now := time.Date(2026, time.June, 17, 10, 0, 0, 0, time.UTC)

	t.Run("single transaction predicts its own amount at low confidence", func(t *testing.T) {
		txs := []transaction.Transaction{expenseAt(42.5, now.AddDate(0, 0, -5))}

		amount, confidence := categoryForecast(txs, PeriodMonthly, now)

		assert.Equal(t, 42.5, amount)
		assert.Equal(t, 0.3, confidence)
	})

	t.Run("steady history predicts near the mean", func(t *testing.T) {
		txs := []transaction.Transaction{
			expenseAt(100, now.AddDate(0, 0, -60)),
			expenseAt(100, now.AddDate(0, 0, -30)),
			expenseAt(100, now.AddDate(0, 0, -1)),
		}

		amount, confidence := categoryForecast(txs, PeriodMonthly, now)

		assert.InDelta(t, 100, amount, 0.001)
		assert.GreaterOrEqual(t, confidence, 0.3)
		assert.LessOrEqual(t, confidence, 0.95)
	})

	t.Run("growing history adds a trend scaled to the period", func(t *testing.T) {
		// 100 then 150 then 200 over 60 days: mean 150, trend 50 per 30 days.
		txs := []transaction.Transaction{
			expenseAt(100, now.AddDate(0, 0, -60)),
			expenseAt(150, now.AddDate(0, 0, -30)),
			expenseAt(200, now),
		}

		amount, _ := categoryForecast(txs, PeriodMonthly, now)

		assert.InDelta(t, 200, amount, 0.001)
	})

	t.Run("strongly falling history never predicts below zero", func(t *testing.T) {
		txs := []transaction.Transaction{
			expenseAt(500, now.AddDate(0, 0, -2)),
			expenseAt(5, now.AddDate(0, 0, -1)),
		}

		amount, _ := categoryForecast(txs, PeriodYearly, now)

		assert.GreaterOrEqual(t, amount, 0.0)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		txs := []transaction.Transaction{
			expenseAt(200, now),
			expenseAt(100, now.AddDate(0, 0, -60)),
			expenseAt(150, now.AddDate(0, 0, -30)),
		}

		amount, _ := categoryForecast(txs, PeriodMonthly, now)

		assert.InDelta(t, 200, amount, 0.001)
	})
}

func TestCategoryConfidence(t *testing.T) {
	now := time.Date(2026, time.June, 17, 10, 0, 0, 0, time.UTC)

	t.Run("identical recent amounts score high", func(t *testing.T) {
		txs := make([]transaction.Transaction, 0, 10)
		for i := 0; i < 10; i++ {
			txs = append(txs, expenseAt(50, now.AddDate(0, 0, -i)))
		}

		confidence := categoryConfidence(txs, 50, now)

		// zero variance, full sample, recent: 0.6 + 0.3 + ~0.1 capped at 0.95
		assert.InDelta(t, 0.95, confidence, 0.01)
	})

	t.Run("wild variance scores low", func(t *testing.T) {
		txs := []transaction.Transaction{
			expenseAt(1, now.AddDate(0, 0, -90)),
			expenseAt(1000, now.AddDate(0, 0, -60)),
			expenseAt(2, now.AddDate(0, 0, -45)),
		}

		confidence := categoryConfidence(txs, 334.33, now)

		assert.Less(t, confidence, 0.2)
	})
}

func TestSavingsForecast(t *testing.T) {
	t.Run("under three months falls back to a plain average", func(t *testing.T) {
		months := []monthlyNet{
			{Year: 2026, Month: time.April, Income: 5000, Expense: 4000},
			{Year: 2026, Month: time.May, Income: 5000, Expense: 3000},
		}

		amount, confidence := savingsForecast(months)

		assert.InDelta(t, 1500, amount, 0.001)
		assert.Equal(t, 0.4, confidence)
	})

	t.Run("weights recent months more and follows the recent trend", func(t *testing.T) {
		months := []monthlyNet{
			{Year: 2026, Month: time.February, Income: 5000, Expense: 4500}, // 500
			{Year: 2026, Month: time.March, Income: 5000, Expense: 4000},    // 1000
			{Year: 2026, Month: time.April, Income: 5000, Expense: 3500},    // 1500
			{Year: 2026, Month: time.May, Income: 5000, Expense: 3000},      // 2000
		}

		amount, confidence := savingsForecast(months)

		// weighted average (500+2000+4500+8000)/10 = 1500, trend +500
		assert.InDelta(t, 2000, amount, 0.001)
		assert.GreaterOrEqual(t, confidence, 0.3)
		assert.LessOrEqual(t, confidence, 0.9)
	})

	t.Run("never predicts negative savings", func(t *testing.T) {
		months := []monthlyNet{
			{Year: 2026, Month: time.March, Income: 1000, Expense: 3000},
			{Year: 2026, Month: time.April, Income: 1000, Expense: 3500},
			{Year: 2026, Month: time.May, Income: 1000, Expense: 4000},
		}

		amount, _ := savingsForecast(months)

		assert.Equal(t, 0.0, amount)
	})
}

func TestMergeMonthly(t *testing.T) {
	sums := []transaction.MonthlySum{
		{Year: 2026, Month: time.May, Kind: "expense", Total: 3000},
		{Year: 2026, Month: time.April, Kind: "income", Total: 5000},
		{Year: 2026, Month: time.May, Kind: "income", Total: 5200},
		{Year: 2026, Month: time.April, Kind: "expense", Total: 4100},
	}

	months := mergeMonthly(sums)

	assert.Equal(t, []monthlyNet{
		{Year: 2026, Month: time.April, Income: 5000, Expense: 4100},
		{Year: 2026, Month: time.May, Income: 5200, Expense: 3000},
	}, months)
}
