package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lubinda/stockline-backend/internal/modules/account"
	"github.com/lubinda/stockline-backend/internal/modules/activity"
	"github.com/lubinda/stockline-backend/internal/modules/auth"
	"github.com/lubinda/stockline-backend/internal/modules/branch"
	"github.com/lubinda/stockline-backend/internal/modules/catalog"
	"github.com/lubinda/stockline-backend/internal/modules/inventory"
	"github.com/lubinda/stockline-backend/internal/modules/notification"
	"github.com/lubinda/stockline-backend/internal/modules/order"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on environment")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	logger.Info("connected to database")

	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtSecret) == 0 {
		logger.Fatal("JWT_SECRET is required")
	}

	var sender notification.Sender
	if addr := os.Getenv("SMTP_ADDR"); addr != "" {
		sender = notification.NewSMTPSender(addr, os.Getenv("SMTP_FROM"))
	} else {
		sender = notification.NewLogSender(logger)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity ────────────────────────────────────────────
	activityRepo := activity.NewPostgresRepository(db)
	activityService := activity.NewService(activityRepo, logger)

	accountRepo := account.NewPostgresRepository(db)
	accountService := account.NewService(accountRepo, sender, activityService, logger)

	authService := auth.NewService(accountRepo, jwtSecret, activityService)
	authorize := auth.Authorize(accountRepo, jwtSecret, logger)

	auth.NewHandler(authService).RegisterRoutes(router)
	account.NewHandler(accountService).RegisterRoutes(router, authorize)
	activity.NewHandler(activityService).RegisterRoutes(router, authorize)

	// ── Catalog & Inventory ─────────────────────────────────
	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo)
	inventory.NewHandler(inventoryService).RegisterRoutes(router, authorize)

	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo, inventoryService)
	catalog.NewHandler(catalogService).RegisterRoutes(router, authorize)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, accountRepo, catalogService, inventoryService, logger)
	order.NewHandler(orderService).RegisterRoutes(router, authorize)

	// ── Branches ────────────────────────────────────────────
	branchRepo := branch.NewPostgresRepository(db)
	branchService := branch.NewService(branchRepo, accountRepo)
	branch.NewHandler(branchService).RegisterRoutes(router, authorize)

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("stockline API server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
