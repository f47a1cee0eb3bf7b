package forecast

import (
	"time"

	"github.com/finsight/finsight/pkg/category"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Length is the duration of one forecast period, used to scale the linear
// trend and to bound a prediction's validity window.
func (p Period) Length() time.Duration {
	switch p {
	case PeriodDaily:
		return 24 * time.Hour
	case PeriodWeekly:
		return 7 * 24 * time.Hour
	case PeriodYearly:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
	KindSavings Kind = "savings"
)

func (k Kind) IsValid() bool {
	return k == KindExpense || k == KindIncome || k == KindSavings
}

const (
	ModelLinearRegression   = "linear-regression"
	ModelTimeSeriesAnalysis = "time-series-analysis"
	ModelProphet            = "prophet"
)

// Factor is a named, weighted contributor attached to a prediction for
// explainability. Weights are fixed per model and not used in computation.
type Factor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func expenseFactors() []Factor {
	return []Factor{
		{Name: "historical_average", Weight: 0.6},
		{Name: "trend", Weight: 0.3},
		{Name: "seasonality", Weight: 0.1},
	}
}

func savingsFactors() []Factor {
	return []Factor{
		{Name: "historical_savings_rate", Weight: 0.7},
		{Name: "income_trend", Weight: 0.2},
		{Name: "expense_trend", Weight: 0.1},
	}
}

// Prediction is a derived, append-only record. ActualAmount exists for later
// reconciliation against realized spend and is never written here.
type Prediction struct {
	Id           int
	Uid          string
	Category     category.Ref
	Kind         Kind
	Period       Period
	Amount       float64
	Confidence   float64
	ValidFrom    time.Time
	ValidUntil   time.Time
	Factors      []Factor
	Model        string
	ActualAmount *float64
	CreatedAt    time.Time
}
