package forecast

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/finsight/finsight/pkg/user"
	log "github.com/sirupsen/logrus"
)

type PredictionDTO struct {
	Uid           string    `json:"uid"`
	CategoryId    int       `json:"categoryId,omitempty"`
	CategoryLabel string    `json:"categoryLabel,omitempty"`
	Kind          Kind      `json:"kind"`
	Period        Period    `json:"period"`
	Amount        float64   `json:"amount"`
	Confidence    float64   `json:"confidence"`
	ValidFrom     time.Time `json:"validFrom"`
	ValidUntil    time.Time `json:"validUntil"`
	Factors       []Factor  `json:"factors"`
	Model         string    `json:"model"`
	ActualAmount  *float64  `json:"actualAmount,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func PredictionToDTO(prediction Prediction) PredictionDTO {
	return PredictionDTO{
		Uid:           prediction.Uid,
		CategoryId:    prediction.Category.CategoryId,
		CategoryLabel: prediction.Category.Label,
		Kind:          prediction.Kind,
		Period:        prediction.Period,
		Amount:        prediction.Amount,
		Confidence:    prediction.Confidence,
		ValidFrom:     prediction.ValidFrom,
		ValidUntil:    prediction.ValidUntil,
		Factors:       prediction.Factors,
		Model:         prediction.Model,
		ActualAmount:  prediction.ActualAmount,
		CreatedAt:     prediction.CreatedAt,
	}
}

type ForecastHandler struct {
	forecastService Service
}

func NewForecastHandler(forecastService Service) *ForecastHandler {
	return &ForecastHandler{forecastService}
}

func (handler *ForecastHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log.Debug("Generating forecast")
	w.Header().Set("Content-Type", "application/json")

	period := Period(r.URL.Query().Get("period"))
	if period == "" {
		period = PeriodMonthly
	}
	if !period.IsValid() {
		http.Error(w, "invalid period", http.StatusBadRequest)
		return
	}

	predictions, err := handler.forecastService.Generate(r.Context(), period)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(predictionsToDTO(predictions)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *ForecastHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	kind := Kind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.IsValid() {
		http.Error(w, "invalid kind", http.StatusBadRequest)
		return
	}
	period := Period(r.URL.Query().Get("period"))
	if period != "" && !period.IsValid() {
		http.Error(w, "invalid period", http.StatusBadRequest)
		return
	}

	predictions, err := handler.forecastService.Latest(r.Context(), kind, period)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(predictionsToDTO(predictions)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func predictionsToDTO(predictions []Prediction) []PredictionDTO {
	dto := make([]PredictionDTO, 0, len(predictions))
	for _, prediction := range predictions {
		dto = append(dto, PredictionToDTO(prediction))
	}
	return dto
}
