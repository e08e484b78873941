package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/audit"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/auth"
	apphttp "github.com/Azar1697/Financial-monitoring-and-reporting/internal/http"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/reports"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/router"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/stats"
	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	secret := auth.MustSecret()

	// database/sql handle for the report share store
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware())
	app.Use(requestLogger())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	auditLog := audit.NewLogger(pool)
	txRepo := transactions.NewRepo(pool)
	reportStore := &reports.Store{DB: db}

	r := &router.Router{
		AuthHandler:    &apphttp.AuthHandler{DB: pool},
		TxHandler:      transactions.NewHandler(txRepo, auditLog),
		StatsHandler:   stats.Handler{Repo: stats.Repo{DB: pool}},
		ReportsHandler: reports.NewHandler(txRepo, reportStore),
		ReportStore:    reportStore,
		AuthMW:         auth.Middleware(pool, secret),
	}
	r.RegisterRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Listening on port", port)
	log.Fatal(app.Listen(":" + port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
