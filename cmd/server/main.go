package main // Entry point package

import (
	"context" // Context for startup-scoped DB calls
	"log"     // Logging library
	"time"    // Timeouts for startup tasks

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/ev-charge-hub/internal/config"     // Internal config loader
	"github.com/iliyamo/ev-charge-hub/internal/database"   // MySQL connection and schema
	"github.com/iliyamo/ev-charge-hub/internal/handler"    // HTTP handlers
	"github.com/iliyamo/ev-charge-hub/internal/middleware" // Rate limit and cache middleware
	"github.com/iliyamo/ev-charge-hub/internal/queue"      // Telemetry consumer
	"github.com/iliyamo/ev-charge-hub/internal/repository" // DB repositories
	"github.com/iliyamo/ev-charge-hub/internal/router"     // Route registration
	"github.com/iliyamo/ev-charge-hub/internal/schedule"   // Time grids and availability
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}

	sessions := repository.NewSessionRepo(db)
	reservations := repository.NewReservationRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	if err := sessions.EnsureSeeded(ctx, cfg.SessionNames); err != nil {
		cancel()
		log.Fatalf("seed sessions: %v", err)
	}
	cancel()

	// Redis is optional: without it the server runs with rate limiting,
	// caching and the sensor feed disabled.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting, caching and sensor state disabled")
	}

	// Driver portal books on the full day; the operator console works the
	// staffed 09:00-22:00 hours.
	userGrid := schedule.NewGrid(0, 24)
	adminGrid := schedule.NewGrid(9, 22)

	fetcher := &handler.RepoFetcher{Sessions: sessions, Reservations: reservations}
	sensor := queue.RedisSensor(rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	sessionH := handler.NewSessionHandler(sessions)
	reservationH := handler.NewReservationHandler(cfg, sessions, reservations, userGrid, sensor)
	availabilityH := handler.NewAvailabilityHandler(
		schedule.NewAggregator(fetcher, userGrid),
		schedule.NewAggregator(fetcher, adminGrid),
	)
	plateH := handler.NewPlateHandler(reservations)
	batteryH := handler.NewBatteryHandler(rdb)
	adminH := handler.NewAdminHandler(sessions, reservations, adminGrid, sensor)

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, sessionH, reservationH, availabilityH, plateH, batteryH)
	router.RegisterUser(e, reservationH, plateH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, availabilityH, cfg.JWTSecret)

	// Consume camera detections in the background; the loop reconnects on
	// broker failures and never takes the API down.
	go func() {
		if err := queue.StartTelemetryConsumer(queue.TelemetryDeps{
			Reservations: reservations,
			Redis:        rdb,
		}); err != nil {
			log.Printf("telemetry consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
