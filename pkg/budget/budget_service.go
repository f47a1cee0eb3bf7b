package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsight/finsight/internal/utils"
	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/transaction"
	"github.com/finsight/finsight/pkg/user"
	log "github.com/sirupsen/logrus"
)

// ErrDuplicateActive is returned when a second active budget would exist for
// the same (category, period) tuple.
var ErrDuplicateActive = errors.New("an active budget for this category and period already exists")

type BudgetService interface {
	GetAll(ctx context.Context, includeInactive bool) ([]Budget, error)
	Create(ctx context.Context, budget Budget) (Budget, error)
	Update(ctx context.Context, budget Budget) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	CurrentStatus(ctx context.Context) ([]Status, error)
}

type BudgetServiceImpl struct {
	repo            BudgetRepo
	categoryRepo    category.Repo
	transactionRepo transaction.Repo
	clock           utils.Clock
}

func NewBudgetService(repo BudgetRepo, categoryRepo category.Repo, transactionRepo transaction.Repo, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, categoryRepo: categoryRepo, transactionRepo: transactionRepo, clock: clock}
}

func (s *BudgetServiceImpl) GetAll(ctx context.Context, includeInactive bool) ([]Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId, includeInactive)
}

func (s *BudgetServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Budget{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, budget); err != nil {
		return Budget{}, err
	}

	id, err := s.repo.Store(ctx, userId, budget)
	if err != nil {
		return Budget{}, err
	}
	budget.Id = id

	return budget, nil
}

func (s *BudgetServiceImpl) Update(ctx context.Context, budget Budget) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, budget); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, userId, budget)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%d) or the user (%d) is not the owner", budget.Id, userId)
		return false, nil
	}
	return true, nil
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return false, nil
	}
	return true, nil
}

// CurrentStatus compares each active budget against the spend recorded for its
// category within the current period window.
func (s *BudgetServiceImpl) CurrentStatus(ctx context.Context) ([]Status, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}

	budgets, err := s.repo.GetAll(ctx, userId, false)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	statuses := make([]Status, 0, len(budgets))
	for _, b := range budgets {
		transactions, err := s.transactionRepo.Find(ctx, userId, transaction.Filter{
			Kind:       category.KindExpense,
			From:       b.Period.Start(now),
			To:         now,
			CategoryId: b.CategoryId,
		})
		if err != nil {
			return nil, err
		}
		spent := 0.0
		for _, tx := range transactions {
			spent += tx.Amount
		}

		categoryName := ""
		if cat, err := s.categoryRepo.Get(ctx, userId, b.CategoryId); err == nil {
			categoryName = cat.Name
		}

		statuses = append(statuses, Status{
			Budget:       b,
			CategoryName: categoryName,
			Spent:        spent,
			Remaining:    b.Amount - spent,
		})
	}
	return statuses, nil
}

func (s *BudgetServiceImpl) validate(ctx context.Context, userId int, budget Budget) error {
	if budget.Amount <= 0 {
		return fmt.Errorf("budget amount must be positive")
	}
	if !budget.Period.IsValid() {
		return fmt.Errorf("invalid budget period: %s", budget.Period)
	}
	if _, err := s.categoryRepo.Get(ctx, userId, budget.CategoryId); err != nil {
		return fmt.Errorf("budget category: %w", err)
	}
	if budget.Active {
		existing, err := s.repo.FindActive(ctx, userId, budget.CategoryId, budget.Period)
		if err != nil && !errors.Is(err, ErrBudgetNotFound) {
			return err
		}
		if err == nil && existing.Id != budget.Id {
			return ErrDuplicateActive
		}
	}
	return nil
}
