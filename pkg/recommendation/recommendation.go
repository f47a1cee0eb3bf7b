package recommendation

type Type string

const (
	TypeReduceExpense Type = "reduce_expense"
	TypeSavingsRate   Type = "savings_rate"
	TypeSetIncome     Type = "set_income"
)

// Recommendation is a single actionable suggestion. Amount fields are only
// set for expense reductions.
type Recommendation struct {
	Type              Type
	CategoryId        int
	CategoryName      string
	CurrentAmount     float64
	RecommendedAmount float64
	Savings           float64
	Message           string
}

// CategoryExpense is one row of the per-category spending breakdown,
// averaged per month over the analysis window.
type CategoryExpense struct {
	CategoryId     int
	CategoryName   string
	MonthlyAverage float64
	PercentOfTotal float64
}

// Summary is the full recommendation response. It is computed on demand and
// never persisted.
type Summary struct {
	MonthlyIncome      float64
	CurrentExpenses    float64
	CurrentSavingsRate float64
	Breakdown          []CategoryExpense
	Recommendations    []Recommendation
}
