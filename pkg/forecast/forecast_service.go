package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/utils"
	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/transaction"
	"github.com/finsight/finsight/pkg/user"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	// Generate computes and persists one batch of predictions for the period:
	// one expense prediction per category with history, plus a savings
	// prediction when monthly data exists.
	Generate(ctx context.Context, period Period) ([]Prediction, error)
	// Latest returns the most recent prediction per category, optionally
	// filtered by kind and period.
	Latest(ctx context.Context, kind Kind, period Period) ([]Prediction, error)
}

type ServiceImpl struct {
	transactionRepo transaction.Repo
	categoryRepo    category.Repo
	predictionRepo  PredictionRepo
	mlClient        MLClient // nil when no external service is configured
	cfg             config.Forecast
	clock           utils.Clock
}

func NewService(transactionRepo transaction.Repo, categoryRepo category.Repo, predictionRepo PredictionRepo, mlClient MLClient, cfg config.Forecast, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		predictionRepo:  predictionRepo,
		mlClient:        mlClient,
		cfg:             cfg,
		clock:           clock,
	}
}

func (s *ServiceImpl) Generate(ctx context.Context, period Period) ([]Prediction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("invalid forecast period: %s", period)
	}

	now := s.clock.Now()
	start := s.lookbackStart(period, now)

	// The two reads are independent; issue them concurrently.
	var expenses []transaction.Transaction
	var sums []transaction.MonthlySum
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		expenses, err = s.transactionRepo.Find(egCtx, userId, transaction.Filter{
			Kind: category.KindExpense,
			From: start,
		})
		return err
	})
	eg.Go(func() error {
		var err error
		sums, err = s.transactionRepo.MonthlySums(egCtx, userId, start, now)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load forecast history: %w", err)
	}

	groups := groupByCategory(expenses)
	predictions := make([]Prediction, 0)
	for _, group := range groups {
		predictions = append(predictions, s.predictCategory(ctx, group, period, now))
	}
	predictions = append(predictions, s.predictEmptyCategories(ctx, userId, groups, period, now)...)
	if months := mergeMonthly(sums); len(months) > 0 {
		predictions = append(predictions, s.predictSavings(ctx, months, period, now))
	}

	if len(predictions) == 0 {
		return []Prediction{}, nil
	}
	if err := s.predictionRepo.StoreAll(ctx, userId, predictions); err != nil {
		return nil, fmt.Errorf("failed to store predictions: %w", err)
	}
	return predictions, nil
}

func (s *ServiceImpl) Latest(ctx context.Context, kind Kind, period Period) ([]Prediction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.predictionRepo.FindLatest(ctx, userId, kind, period)
}

// lookbackStart determines how much history a forecast granularity consumes.
func (s *ServiceImpl) lookbackStart(period Period, now time.Time) time.Time {
	switch period {
	case PeriodDaily:
		months := s.cfg.DailyLookbackMonths
		if months <= 0 {
			months = 1
		}
		return now.AddDate(0, -months, 0)
	case PeriodWeekly:
		months := s.cfg.WeeklyLookbackMonths
		if months <= 0 {
			months = 3
		}
		return now.AddDate(0, -months, 0)
	case PeriodYearly:
		years := s.cfg.YearlyLookbackYears
		if years <= 0 {
			years = 3
		}
		return now.AddDate(-years, 0, 0)
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}

type categoryGroup struct {
	ref category.Ref
	txs []transaction.Transaction
}

// groupByCategory buckets expenses per referenced category id or custom
// label, preserving first-seen order.
func groupByCategory(txs []transaction.Transaction) []categoryGroup {
	index := map[category.Ref]int{}
	var groups []categoryGroup
	for _, tx := range txs {
		ref := tx.CategoryRef
		i, ok := index[ref]
		if !ok {
			i = len(groups)
			index[ref] = i
			groups = append(groups, categoryGroup{ref: ref})
		}
		groups[i].txs = append(groups[i].txs, tx)
	}
	return groups
}

func (s *ServiceImpl) predictCategory(ctx context.Context, group categoryGroup, period Period, now time.Time) Prediction {
	amount, confidence := categoryForecast(group.txs, period, now)
	model := ModelLinearRegression

	if s.mlClient != nil {
		series := make([]SeriesPoint, 0, len(group.txs))
		for _, tx := range group.txs {
			series = append(series, SeriesPoint{Date: tx.Date, Value: tx.Amount})
		}
		if points, err := s.mlClient.Forecast(ctx, series, period, 1); err != nil {
			// Fall back to the heuristic path; do not abort the batch.
			log.Warnf("external forecast failed for category %+v, using heuristic: %v", group.ref, err)
		} else {
			amount = maxZero(points[0].Value)
			model = ModelProphet
		}
	}

	return Prediction{
		Uid:        uuid.New().String(),
		Category:   group.ref,
		Kind:       KindExpense,
		Period:     period,
		Amount:     amount,
		Confidence: confidence,
		ValidFrom:  now,
		ValidUntil: now.Add(period.Length()),
		Factors:    expenseFactors(),
		Model:      model,
	}
}

// predictEmptyCategories covers categories with no transactions in the
// window. They normally emit nothing, but when an external service is
// configured one call is attempted per category and contributes a prediction
// only on success.
func (s *ServiceImpl) predictEmptyCategories(ctx context.Context, userId int, groups []categoryGroup, period Period, now time.Time) []Prediction {
	if s.mlClient == nil {
		return nil
	}
	categories, err := s.categoryRepo.GetAll(ctx, userId, category.KindExpense)
	if err != nil {
		log.Warnf("failed to list categories for forecast: %v", err)
		return nil
	}

	seen := map[int]bool{}
	for _, group := range groups {
		if !group.ref.IsCustom() {
			seen[group.ref.CategoryId] = true
		}
	}

	var predictions []Prediction
	for _, c := range categories {
		if seen[c.Id] {
			continue
		}
		points, err := s.mlClient.Forecast(ctx, nil, period, 1)
		if err != nil {
			log.Debugf("external forecast unavailable for empty category %d: %v", c.Id, err)
			continue
		}
		predictions = append(predictions, Prediction{
			Uid:        uuid.New().String(),
			Category:   category.RefTo(c.Id),
			Kind:       KindExpense,
			Period:     period,
			Amount:     maxZero(points[0].Value),
			Confidence: 0.3,
			ValidFrom:  now,
			ValidUntil: now.Add(period.Length()),
			Factors:    expenseFactors(),
			Model:      ModelProphet,
		})
	}
	return predictions
}

func (s *ServiceImpl) predictSavings(ctx context.Context, months []monthlyNet, period Period, now time.Time) Prediction {
	amount, confidence := savingsForecast(months)
	model := ModelTimeSeriesAnalysis

	if s.mlClient != nil {
		series := make([]SeriesPoint, 0, len(months))
		for _, m := range months {
			series = append(series, SeriesPoint{
				Date:  time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC),
				Value: m.Savings(),
			})
		}
		if points, err := s.mlClient.Forecast(ctx, series, period, 1); err != nil {
			log.Warnf("external savings forecast failed, using heuristic: %v", err)
		} else {
			amount = maxZero(points[0].Value)
			model = ModelProphet
		}
	}

	return Prediction{
		Uid:        uuid.New().String(),
		Kind:       KindSavings,
		Period:     period,
		Amount:     amount,
		Confidence: confidence,
		ValidFrom:  now,
		ValidUntil: now.Add(period.Length()),
		Factors:    savingsFactors(),
		Model:      model,
	}
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
