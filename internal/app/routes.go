package app

import (
	"net/http"

	"github.com/finsight/finsight/internal/config"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// User management
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Find).Methods("GET")
	r.HandleFunc("/api/transaction/export", deps.TransactionHandler.Export).Methods("GET")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.Register).Methods("POST")
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/budget/status", deps.BudgetHandler.CurrentStatus).Methods("GET")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Forecasts
	r.HandleFunc("/api/forecast", deps.ForecastHandler.Generate).Methods("POST")
	r.HandleFunc("/api/forecast", deps.ForecastHandler.GetLatest).Methods("GET")

	// Recommendations
	r.HandleFunc("/api/recommendation", deps.RecommendationHandler.Get).Methods("GET")

	// Health
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
}
