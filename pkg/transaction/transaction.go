package transaction

import (
	"time"

	"github.com/finsight/finsight/pkg/category"
)

type Transaction struct {
	Id     int
	Kind   category.Kind
	Amount float64
	// CategoryRef is what the user recorded: a stable category id or a free-text label.
	CategoryRef category.Ref
	// Category is the resolved category, populated on reads.
	Category    category.Category
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// Filter narrows transaction listings. Zero values mean "no constraint".
type Filter struct {
	Kind       category.Kind
	From       time.Time
	To         time.Time
	CategoryId int
}

// MonthlySum is the amount total for one (year, month, kind) bucket.
type MonthlySum struct {
	Year  int
	Month time.Month
	Kind  category.Kind
	Total float64
}

// CategoryTotal is the amount total for one resolved category over a window.
type CategoryTotal struct {
	Category category.Category
	Total    float64
}
