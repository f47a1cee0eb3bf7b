package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Find(ctx context.Context, filter Filter) ([]Transaction, error)
	Create(ctx context.Context, tx Transaction) (Transaction, error)
	Update(ctx context.Context, tx Transaction) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Find(ctx context.Context, filter Filter) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.Find(ctx, userId, filter)
}

func (s *ServiceImpl) Create(ctx context.Context, tx Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return Transaction{}, err
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	id, err := s.repo.Store(ctx, userId, tx)
	if err != nil {
		return Transaction{}, err
	}
	return s.repo.Get(ctx, userId, id)
}

func (s *ServiceImpl) Update(ctx context.Context, tx Transaction) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(tx); err != nil {
		return false, err
	}

	updated, err := s.repo.Update(ctx, userId, tx)
	if err != nil {
		return false, err
	}
	if !updated {
		log.Warnf("transaction not updated, probably because it does not exist (%d) or the user (%d) is not the owner", tx.Id, userId)
		return false, nil
	}
	return true, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("transaction not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return false, nil
	}
	return true, nil
}

func validate(tx Transaction) error {
	if tx.Amount <= 0 {
		return fmt.Errorf("transaction amount must be positive")
	}
	if tx.Kind != category.KindIncome && tx.Kind != category.KindExpense {
		return fmt.Errorf("invalid transaction kind: %s", tx.Kind)
	}
	return nil
}
