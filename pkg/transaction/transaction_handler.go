package transaction

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/finsight/finsight/pkg/category"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	Id            int       `json:"id"`
	Kind          string    `json:"kind"`
	Amount        float64   `json:"amount"`
	CategoryId    int       `json:"categoryId,omitempty"`
	CategoryLabel string    `json:"categoryLabel,omitempty"`
	CategoryName  string    `json:"categoryName,omitempty"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description,omitempty"`
}

type Handler struct {
	service     Service
	csvRenderer CsvRenderer
}

func NewHandler(service Service, csvRenderer CsvRenderer) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), dtoToTransaction(dto))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.service.Find(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, tx := range transactions {
		dtos = append(dtos, transactionToDTO(tx))
	}

	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.Id = id

	ok, err := h.service.Update(r.Context(), dtoToTransaction(dto))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(dto); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, err := h.service.Find(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	csv, err := h.csvRenderer.Render(transactions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"transactions.csv\"")
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write csv response: %v", err)
	}
}

func filterFromQuery(r *http.Request) (Filter, error) {
	var filter Filter
	query := r.URL.Query()

	filter.Kind = category.Kind(query.Get("kind"))
	if from := query.Get("from"); from != "" {
		parsed, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return Filter{}, err
		}
		filter.From = parsed
	}
	if to := query.Get("to"); to != "" {
		parsed, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return Filter{}, err
		}
		filter.To = parsed
	}
	if categoryId := query.Get("categoryId"); categoryId != "" {
		parsed, err := strconv.Atoi(categoryId)
		if err != nil {
			return Filter{}, err
		}
		filter.CategoryId = parsed
	}
	return filter, nil
}

func transactionToDTO(tx Transaction) TransactionDTO {
	return TransactionDTO{
		Id:            tx.Id,
		Kind:          string(tx.Kind),
		Amount:        tx.Amount,
		CategoryId:    tx.CategoryRef.CategoryId,
		CategoryLabel: tx.CategoryRef.Label,
		CategoryName:  tx.Category.Name,
		Date:          tx.Date,
		Description:   tx.Description,
	}
}

func dtoToTransaction(dto TransactionDTO) Transaction {
	var ref category.Ref
	if dto.CategoryId != 0 {
		ref = category.RefTo(dto.CategoryId)
	} else if dto.CategoryLabel != "" {
		ref = category.CustomLabel(dto.CategoryLabel)
	}
	return Transaction{
		Id:          dto.Id,
		Kind:        category.Kind(dto.Kind),
		Amount:      dto.Amount,
		CategoryRef: ref,
		Date:        dto.Date,
		Description: dto.Description,
	}
}
