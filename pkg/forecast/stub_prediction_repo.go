package forecast

import (
	"context"
	"fmt"
)

type StubPredictionRepo struct {
	nextId int
	data   []Prediction
}

func NewStubPredictionRepo() *StubPredictionRepo {
	return &StubPredictionRepo{}
}

func (s *StubPredictionRepo) StoreAll(ctx context.Context, userId int, predictions []Prediction) error {
	for _, prediction := range predictions {
		s.nextId++
		prediction.Id = s.nextId
		s.data = append(s.data, prediction)
	}
	return nil
}

func (s *StubPredictionRepo) FindLatest(ctx context.Context, userId int, kind Kind, period Period) ([]Prediction, error) {
	latest := map[string]Prediction{}
	var order []string
	for _, prediction := range s.data {
		if kind != "" && prediction.Kind != kind {
			continue
		}
		if period != "" && prediction.Period != period {
			continue
		}
		key := fmt.Sprintf("%s|%s|%d|%s", prediction.Kind, prediction.Period, prediction.Category.CategoryId, prediction.Category.Label)
		if _, ok := latest[key]; !ok {
			order = append(order, key)
		}
		latest[key] = prediction
	}
	result := make([]Prediction, 0, len(order))
	for _, key := range order {
		result = append(result, latest[key])
	}
	return result, nil
}

func (s *StubPredictionRepo) Cleanup() {
	s.data = nil
	s.nextId = 0
}
