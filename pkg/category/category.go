package category

import "time"

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

type Category struct {
	Id        int
	Name      string
	Kind      Kind
	Icon      string
	Color     string
	CreatedAt time.Time
}

// Ref is a tagged reference to a category: either a stable category id or a
// free-text label typed by the user. Exactly one of the two is set.
type Ref struct {
	CategoryId int
	Label      string
}

func RefTo(id int) Ref {
	return Ref{CategoryId: id}
}

func CustomLabel(label string) Ref {
	return Ref{Label: label}
}

func (r Ref) IsCustom() bool {
	return r.CategoryId == 0
}

func (r Ref) IsZero() bool {
	return r.CategoryId == 0 && r.Label == ""
}

// Resolve turns a ref plus the stored category (nil for custom labels or rows
// whose category was deleted) into a displayable Category value. This is the
// single place where custom-label categories are synthesized.
func Resolve(ref Ref, stored *Category) Category {
	if stored != nil {
		return *stored
	}
	name := ref.Label
	if name == "" {
		name = "Uncategorized"
	}
	return Category{Name: name, Kind: KindExpense}
}
