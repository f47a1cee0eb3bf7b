package user

import "time"

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
	CreatedAt   time.Time
}

type Settings struct {
	Currency string
	// MonthlyIncome is the user's declared monthly income, used as the baseline
	// for savings-rate recommendations. 0 means "not set".
	MonthlyIncome float64
}
