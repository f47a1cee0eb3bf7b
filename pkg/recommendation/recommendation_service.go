package recommendation

import (
	"context"
	"fmt"
	"math"

	"github.com/finsight/finsight/internal/utils"
	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/transaction"
	"github.com/finsight/finsight/pkg/user"
)

const (
	// idealSavingsRate is the fixed target every user is measured against.
	idealSavingsRate = 0.20
	// maxCategoryReduction caps any single suggestion at 10% of that
	// category's spend so advice stays realistic.
	maxCategoryReduction = 0.10
	// lookbackMonths is the analysis window for monthly averages.
	lookbackMonths = 3
)

type Service interface {
	Generate(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	transactionRepo transaction.Repo
	userService     user.Service
	clock           utils.Clock
}

func NewService(transactionRepo transaction.Repo, userService user.Service, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		transactionRepo: transactionRepo,
		userService:     userService,
		clock:           clock,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context) (Summary, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to get current user: %w", err)
	}
	currentUser, err := s.userService.GetCurrentUser(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load user settings: %w", err)
	}
	income := currentUser.Settings.MonthlyIncome

	now := s.clock.Now()
	totals, err := s.transactionRepo.CategoryTotals(ctx, userId, category.KindExpense, now.AddDate(0, -lookbackMonths, 0), now)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load category totals: %w", err)
	}

	totalExpenses := 0.0
	breakdown := make([]CategoryExpense, 0, len(totals))
	for _, total := range totals {
		monthlyAverage := total.Total / lookbackMonths
		totalExpenses += monthlyAverage
		breakdown = append(breakdown, CategoryExpense{
			CategoryId:     total.Category.Id,
			CategoryName:   total.Category.Name,
			MonthlyAverage: monthlyAverage,
		})
	}
	if totalExpenses > 0 {
		for i := range breakdown {
			breakdown[i].PercentOfTotal = breakdown[i].MonthlyAverage / totalExpenses
		}
	}

	savingsRate := 0.0
	if income > 0 {
		savingsRate = (income - totalExpenses) / income
	}

	recommendations := s.reductions(income, totalExpenses, savingsRate, breakdown)
	recommendations = append(recommendations, Recommendation{
		Type: TypeSavingsRate,
		Message: fmt.Sprintf("Your current savings rate is %.1f%%, the recommended target is %.0f%%",
			savingsRate*100, idealSavingsRate*100),
	})
	if income == 0 {
		recommendations = append(recommendations, Recommendation{
			Type:    TypeSetIncome,
			Message: "Set your monthly income to receive personalized savings recommendations",
		})
	}

	return Summary{
		MonthlyIncome:      income,
		CurrentExpenses:    totalExpenses,
		CurrentSavingsRate: savingsRate,
		Breakdown:          breakdown,
		Recommendations:    recommendations,
	}, nil
}

// reductions proposes per-category cuts that together close the gap to the
// ideal savings rate. The breakdown arrives sorted by spend descending.
func (s *ServiceImpl) reductions(income, totalExpenses, savingsRate float64, breakdown []CategoryExpense) []Recommendation {
	var recommendations []Recommendation
	if income <= 0 || savingsRate >= idealSavingsRate {
		return recommendations
	}

	savingsGap := idealSavingsRate*income - (income - totalExpenses)
	for _, expense := range breakdown {
		if expense.MonthlyAverage <= 0 {
			continue
		}
		reduction := math.Min(maxCategoryReduction*expense.MonthlyAverage, savingsGap*expense.PercentOfTotal)
		if reduction <= 0 {
			continue
		}
		recommended := expense.MonthlyAverage - reduction
		recommendations = append(recommendations, Recommendation{
			Type:              TypeReduceExpense,
			CategoryId:        expense.CategoryId,
			CategoryName:      expense.CategoryName,
			CurrentAmount:     expense.MonthlyAverage,
			RecommendedAmount: recommended,
			Savings:           reduction,
			Message: fmt.Sprintf("Reduce %s spending from %.2f to %.2f per month to save %.2f",
				expense.CategoryName, expense.MonthlyAverage, recommended, reduction),
		})
	}
	return recommendations
}
