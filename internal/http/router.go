package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/vending-fleet/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(RateLimitMiddleware)

	r.Post("/login", handlers.LoginHandler)
	r.Post("/register", handlers.RegisterHandler)
	r.Post("/refresh", handlers.RefreshHandler)

	r.Get("/machines", handlers.ListMachinesHandler)
	r.Get("/machines/{id}/layout", handlers.GetLayoutHandler)
	r.Post("/machines/{id}/purchase", handlers.PurchaseHandler)
	r.Post("/machines/{id}/purchase/by-product", handlers.PurchaseByProductHandler)
	r.Get("/customers/{id}/balance", handlers.GetBalanceHandler)
	r.Get("/machines/{id}/customers/{customerId}/frequent", handlers.FrequentlyPurchasedHandler)

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware)
		pr.Post("/machines/{id}/restock", handlers.OpenRestockHandler)
		pr.Put("/machines/{id}/restock/slots", handlers.StageChangeHandler)
		pr.Get("/machines/{id}/restock/instructions", handlers.GetInstructionsHandler)
		pr.Post("/machines/{id}/restock/instructions/{instructionId}/complete", handlers.CompleteInstructionHandler)
		pr.Post("/machines/{id}/restock/commit", handlers.CommitRestockHandler)
		pr.Delete("/machines/{id}/restock", handlers.AbandonRestockHandler)
		pr.Post("/products/import", handlers.ImportProductsHandler)
		pr.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
