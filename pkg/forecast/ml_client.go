package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finsight/finsight/internal/config"
	log "github.com/sirupsen/logrus"
)

// SeriesPoint is one observation sent to the external forecasting service.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ForecastPoint is one point forecast returned by the external service.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"yhat"`
	Lower float64   `json:"yhat_lower"`
	Upper float64   `json:"yhat_upper"`
}

// MLClient calls the external statistical forecasting service. A single
// attempt per call, bounded by the configured timeout; callers fall back to
// the heuristic path on any error.
type MLClient interface {
	Forecast(ctx context.Context, series []SeriesPoint, period Period, horizon int) ([]ForecastPoint, error)
}

type MLClientImpl struct {
	baseUrl    string
	httpClient *http.Client
}

func NewMLClient(cfg config.Forecast) *MLClientImpl {
	timeout := time.Duration(cfg.MLTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &MLClientImpl{
		baseUrl:    cfg.MLServiceUrl,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type forecastRequest struct {
	Series  []SeriesPoint `json:"series"`
	Period  Period        `json:"period"`
	Horizon int           `json:"horizon"`
}

func (c *MLClientImpl) Forecast(ctx context.Context, series []SeriesPoint, period Period, horizon int) ([]ForecastPoint, error) {
	body, err := json.Marshal(forecastRequest{Series: series, Period: period, Horizon: horizon})
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create forecast request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Debugf("forecast service returned status %d", resp.StatusCode)
		return nil, fmt.Errorf("forecast service returned status %d", resp.StatusCode)
	}

	var points []ForecastPoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("forecast service returned an empty forecast")
	}
	return points, nil
}
