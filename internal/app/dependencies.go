package app

import (
	"github.com/finsight/finsight/internal/config"
	"github.com/finsight/finsight/internal/utils"
	"github.com/finsight/finsight/pkg/budget"
	"github.com/finsight/finsight/pkg/category"
	"github.com/finsight/finsight/pkg/forecast"
	"github.com/finsight/finsight/pkg/recommendation"
	"github.com/finsight/finsight/pkg/transaction"
	"github.com/finsight/finsight/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	CategoryRepo    category.Repo
	CategoryService category.Service
	CategoryHandler *category.Handler

	TransactionRepo    transaction.Repo
	TransactionService transaction.Service
	CsvRenderer        *transaction.CsvRendererImpl
	TransactionHandler *transaction.Handler

	BudgetRepo    budget.BudgetRepo
	BudgetService *budget.BudgetServiceImpl
	BudgetHandler *budget.BudgetHandler

	PredictionRepo  forecast.PredictionRepo
	MLClient        forecast.MLClient
	ForecastService forecast.Service
	ForecastHandler *forecast.ForecastHandler

	RecommendationService recommendation.Service
	RecommendationHandler *recommendation.RecommendationHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.CategoryRepo = category.NewRepo(db)
	deps.CategoryService = category.NewService(deps.CategoryRepo)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.TransactionRepo = transaction.NewRepo(db)
	deps.TransactionService = transaction.NewService(deps.TransactionRepo)
	deps.CsvRenderer = transaction.NewCsvRenderer()
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService, deps.CsvRenderer)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.CategoryRepo, deps.TransactionRepo, deps.Clock)
	deps.BudgetHandler = budget.NewBudgetHandler(deps.BudgetService)

	deps.PredictionRepo = forecast.NewPredictionRepo(db)
	if cfg.Forecast.MLServiceUrl != "" {
		deps.MLClient = forecast.NewMLClient(cfg.Forecast)
	}
	deps.ForecastService = forecast.NewService(deps.TransactionRepo, deps.CategoryRepo, deps.PredictionRepo, deps.MLClient, cfg.Forecast, deps.Clock)
	deps.ForecastHandler = forecast.NewForecastHandler(deps.ForecastService)

	deps.RecommendationService = recommendation.NewService(deps.TransactionRepo, deps.UserService, deps.Clock)
	deps.RecommendationHandler = recommendation.NewRecommendationHandler(deps.RecommendationService)

	return deps
}
