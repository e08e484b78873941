package router

import (
	"github.com/gofiber/fiber/v2"

	handlers "github.com/Azar1697/Financial-monitoring-and-reporting/internal/http"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/reports"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/stats"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

type Router struct {
	AuthHandler    *handlers.AuthHandler
	TxHandler      *transactions.Handler
	StatsHandler   stats.Handler
	ReportsHandler *reports.Handler
	ReportStore    *reports.Store
	AuthMW         fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", RateLimitAuth(), r.AuthHandler.Signup)
	app.Post("/api/auth/login", RateLimitAuth(), r.AuthHandler.Login)
	app.Get("/api/profile", r.AuthMW, r.AuthHandler.Profile)

	app.Get("/api/transactions", r.AuthMW, r.TxHandler.List)
	app.Post("/api/transactions", RateLimitWrite(), r.AuthMW, r.TxHandler.Create)
	app.Get("/api/transactions/stats", r.AuthMW, r.StatsHandler.GetStatistics)
	app.Get("/api/transactions/:id", r.AuthMW, r.TxHandler.Get)
	app.Put("/api/transactions/:id", RateLimitWrite(), r.AuthMW, r.TxHandler.Update)
	app.Delete("/api/transactions/:id", RateLimitWrite(), r.AuthMW, r.TxHandler.Delete)

	app.Get("/api/reports", r.AuthMW, r.ReportsHandler.Download)
	app.Post("/api/reports/share", r.AuthMW, r.ReportsHandler.Share)

	// Public tokenized report download
	app.Get("/r/:token", reports.DownloadShared(r.ReportStore))
}
