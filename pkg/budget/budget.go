package budget

import "time"

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

func (p Period) IsValid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Start returns the beginning of the period containing now. Weeks start on Monday.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeekly:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		day := now.AddDate(0, 0, -(weekday - 1))
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

type Budget struct {
	Id         int
	CategoryId int
	Amount     float64
	Period     Period
	Active     bool
	Notes      string
	CreatedAt  time.Time
}

// Status reports a budget against actual spend in the current period.
type Status struct {
	Budget       Budget
	CategoryName string
	Spent        float64
	Remaining    float64
}
