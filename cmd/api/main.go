package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "smartpass/api/swagger" // swagger docs
	"smartpass/internal/config"
	"smartpass/internal/database"
	"smartpass/internal/middleware"
	"smartpass/internal/qrcode"
	"smartpass/internal/repository"
	"smartpass/internal/routes"
	"smartpass/internal/service"
	"smartpass/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title           SmartPass API
// @version         1.0
// @description     Employee and ID-card management backend.
// @host            localhost:3000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer database.Close(db)
	log.Println("Connected to PostgreSQL successfully.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(originChecker(cfg.CORSOrigins))
	go wsHub.Run(ctx)

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("Token service: %v", err)
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db, cfg.StoreTimeout)
	employeeRepo := repository.NewEmployeeRepository(db, cfg.StoreTimeout)
	activityRepo := repository.NewActivityRepository(db, cfg.StoreTimeout)
	reportRepo := repository.NewReportRepository(db, cfg.StoreTimeout)

	activityService := service.NewActivityService(activityRepo, userRepo, wsHub)
	authService := service.NewAuthService(userRepo, tokens, hasher, activityService)
	userService := service.NewUserService(userRepo, repository.NewTransactionManager(db), hasher, activityService)
	employeeService := service.NewEmployeeService(employeeRepo, userRepo, qrcode.NewGenerator(cfg.PublicBaseURL), activityService)
	reportService := service.NewReportService(reportRepo, employeeRepo, userRepo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.NewRouter(routes.Deps{
		Auth:               authService,
		Users:              userService,
		Employee:           employeeService,
		Report:             reportService,
		Activity:           activityService,
		Guard:              middleware.Guard{Tokens: tokens, Users: userRepo},
		Hub:                wsHub,
		Metrics:            middleware.NewMetrics(registry),
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		CORSOrigins:        cfg.CORSOrigins,
		TrustedProxies:     cfg.TrustedProxies,
		Swagger:            cfg.GinMode != gin.ReleaseMode,
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

func originChecker(origins []string) func(string) bool {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = true
	}
	return func(origin string) bool { return allowed[origin] }
}
