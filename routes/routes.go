package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"merchantassistant/handlers"
	"merchantassistant/middleware"
)

// SetupRoutes defines all the routes for the application. An empty
// jwtSecret leaves the merchant routes and chat open.
func SetupRoutes(app *fiber.App, h *handlers.Handler, jwtSecret []byte) {
	// --- Operational Routes ---
	app.Get("/version", h.Version)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", h.Health)

	// --- Session Routes ---
	api.Post("/session", h.HandleCreateSession)
	api.Get("/merchants", h.HandleListMerchants)

	var auth []fiber.Handler
	if len(jwtSecret) > 0 {
		auth = append(auth, middleware.JWT(jwtSecret))
	}
	scoped := chain(auth, middleware.MerchantRequired)

	// --- Chat Routes ---
	api.Post("/chat", chain(auth, h.HandleChat)...)

	// --- Merchant Routes ---
	merchant := api.Group("/merchant/:merchantId")
	merchant.Get("/summary", chain(scoped, h.HandleGetMerchantSummary)...)
	merchant.Get("/sales/daily", chain(scoped, h.HandleGetDailySales)...)
	merchant.Get("/sales/metrics", chain(scoped, h.HandleGetSalesMetrics)...)
	merchant.Get("/products/top", chain(scoped, h.HandleGetTopProducts)...)
	merchant.Get("/items/performance", chain(scoped, h.HandleGetItemPerformance)...)
	merchant.Get("/keywords", chain(scoped, h.HandleGetKeywords)...)

	merchant.Get("/insights", chain(scoped, h.HandleGetInsights)...)
	merchant.Get("/insights/summary", chain(scoped, h.HandleGetInsightsSummary)...)
	merchant.Get("/recommendations", chain(scoped, h.HandleGetRecommendations)...)
}

// chain returns a fresh slice of mw followed by next.
func chain(mw []fiber.Handler, next fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, next)
}
