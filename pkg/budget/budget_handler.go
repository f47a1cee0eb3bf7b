package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type BudgetDTO struct {
	Id         int     `json:"id"`
	CategoryId int     `json:"categoryId"`
	Amount     float64 `json:"amount"`
	Period     Period  `json:"period"`
	Active     bool    `json:"active"`
	Notes      string  `json:"notes,omitempty"`
}

type StatusDTO struct {
	Budget       BudgetDTO `json:"budget"`
	CategoryName string    `json:"categoryName"`
	Spent        float64   `json:"spent"`
	Remaining    float64   `json:"remaining"`
}

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

func (handler *BudgetHandler) Register(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new budget")
	w.Header().Set("Content-Type", "application/json")

	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	createdBudget, err := handler.budgetService.Create(r.Context(), DTOToBudget(budgetDTO))
	if err != nil {
		if errors.Is(err, ErrDuplicateActive) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(BudgetToDTO(createdBudget)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	includeInactive := r.URL.Query().Has("includeInactive")

	budgets, err := handler.budgetService.GetAll(r.Context(), includeInactive)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		budgetsDTO = append(budgetsDTO, BudgetToDTO(budget))
	}

	if err := json.NewEncoder(w).Encode(budgetsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	budgetId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var budgetDTO BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if budgetDTO.Id == 0 || budgetDTO.Id != budgetId {
		http.Error(w, "Invalid budget id in request body", http.StatusBadRequest)
		return
	}

	ok, err := handler.budgetService.Update(r.Context(), DTOToBudget(budgetDTO))
	if err != nil {
		if errors.Is(err, ErrDuplicateActive) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		http.Error(w, "Budget not found", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(budgetDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	budgetId, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := handler.budgetService.Delete(r.Context(), budgetId)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Budget not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *BudgetHandler) CurrentStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	statuses, err := handler.budgetService.CurrentStatus(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]StatusDTO, 0, len(statuses))
	for _, status := range statuses {
		dtos = append(dtos, StatusDTO{
			Budget:       BudgetToDTO(status.Budget),
			CategoryName: status.CategoryName,
			Spent:        status.Spent,
			Remaining:    status.Remaining,
		})
	}

	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func BudgetToDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		Id:         budget.Id,
		CategoryId: budget.CategoryId,
		Amount:     budget.Amount,
		Period:     budget.Period,
		Active:     budget.Active,
		Notes:      budget.Notes,
	}
}

func DTOToBudget(budgetDTO BudgetDTO) Budget {
	return Budget{
		Id:         budgetDTO.Id,
		CategoryId: budgetDTO.CategoryId,
		Amount:     budgetDTO.Amount,
		Period:     budgetDTO.Period,
		Active:     budgetDTO.Active,
		Notes:      budgetDTO.Notes,
	}
}
