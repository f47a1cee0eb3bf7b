package recommendation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finsight/finsight/pkg/user"
)

type RecommendationDTO struct {
	Type              Type    `json:"type"`
	CategoryId        int     `json:"categoryId,omitempty"`
	CategoryName      string  `json:"categoryName,omitempty"`
	CurrentAmount     float64 `json:"currentAmount,omitempty"`
	RecommendedAmount float64 `json:"recommendedAmount,omitempty"`
	Savings           float64 `json:"savings,omitempty"`
	Message           string  `json:"message"`
}

type CategoryExpenseDTO struct {
	CategoryId     int     `json:"categoryId,omitempty"`
	CategoryName   string  `json:"categoryName"`
	MonthlyAverage float64 `json:"monthlyAverage"`
	PercentOfTotal float64 `json:"percentOfTotal"`
}

type SummaryDTO struct {
	MonthlyIncome      float64              `json:"monthlyIncome"`
	CurrentExpenses    float64              `json:"currentExpenses"`
	CurrentSavingsRate float64              `json:"currentSavingsRate"`
	Breakdown          []CategoryExpenseDTO `json:"breakdown"`
	Recommendations    []RecommendationDTO  `json:"recommendations"`
}

func SummaryToDTO(summary Summary) SummaryDTO {
	breakdown := make([]CategoryExpenseDTO, 0, len(summary.Breakdown))
	for _, expense := range summary.Breakdown {
		breakdown = append(breakdown, CategoryExpenseDTO{
			CategoryId:     expense.CategoryId,
			CategoryName:   expense.CategoryName,
			MonthlyAverage: expense.MonthlyAverage,
			PercentOfTotal: expense.PercentOfTotal,
		})
	}
	recommendations := make([]RecommendationDTO, 0, len(summary.Recommendations))
	for _, rec := range summary.Recommendations {
		recommendations = append(recommendations, RecommendationDTO{
			Type:              rec.Type,
			CategoryId:        rec.CategoryId,
			CategoryName:      rec.CategoryName,
			CurrentAmount:     rec.CurrentAmount,
			RecommendedAmount: rec.RecommendedAmount,
			Savings:           rec.Savings,
			Message:           rec.Message,
		})
	}
	return SummaryDTO{
		MonthlyIncome:      summary.MonthlyIncome,
		CurrentExpenses:    summary.CurrentExpenses,
		CurrentSavingsRate: summary.CurrentSavingsRate,
		Breakdown:          breakdown,
		Recommendations:    recommendations,
	}
}

type RecommendationHandler struct {
	recommendationService Service
}

func NewRecommendationHandler(recommendationService Service) *RecommendationHandler {
	return &RecommendationHandler{recommendationService}
}

func (handler *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, err := handler.recommendationService.Generate(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(SummaryToDTO(summary)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
