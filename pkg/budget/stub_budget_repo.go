package budget

import (
	"context"
)

type StubBudgetRepo struct {
	nextId int
	data   map[int]Budget
}

func NewStubBudgetRepo() *StubBudgetRepo {
	return &StubBudgetRepo{nextId: 0, data: map[int]Budget{}}
}

func (s *StubBudgetRepo) Store(ctx context.Context, userId int, budget Budget) (int, error) {
	s.nextId++
	budget.Id = s.nextId
	s.data[budget.Id] = budget
	return budget.Id, nil
}

func (s *StubBudgetRepo) Get(ctx context.Context, userId int, id int) (Budget, error) {
	budget, ok := s.data[id]
	if !ok {
		return Budget{}, ErrBudgetNotFound
	}
	return budget, nil
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, userId int, includeInactive bool) ([]Budget, error) {
	budgets := make([]Budget, 0, len(s.data))
	for _, budget := range s.data {
		if budget.Active || includeInactive {
			budgets = append(budgets, budget)
		}
	}
	return budgets, nil
}

func (s *StubBudgetRepo) FindActive(ctx context.Context, userId int, categoryId int, period Period) (Budget, error) {
	for _, budget := range s.data {
		if budget.Active && budget.CategoryId == categoryId && budget.Period == period {
			return budget, nil
		}
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *StubBudgetRepo) Update(ctx context.Context, userId int, budget Budget) (bool, error) {
	if _, ok := s.data[budget.Id]; !ok {
		return false, nil
	}
	s.data[budget.Id] = budget
	return true, nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context, userId int, budgetId int) (bool, error) {
	if _, ok := s.data[budgetId]; !ok {
		return false, nil
	}
	delete(s.data, budgetId)
	return true, nil
}

func (s *StubBudgetRepo) Cleanup() {
	s.data = map[int]Budget{}
}
