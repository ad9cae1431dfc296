package main // Entry point package

import (
	"context" // Context for the background worker
	"log"     // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/hotel-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/hotel-booking/internal/database"   // MySQL connection helper
	"github.com/iliyamo/hotel-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/hotel-booking/internal/middleware" // Cache and metrics middleware
	"github.com/iliyamo/hotel-booking/internal/queue"      // Broker consumers
	"github.com/iliyamo/hotel-booking/internal/repository" // DB repositories
	"github.com/iliyamo/hotel-booking/internal/router"     // Internal router setup
	"github.com/iliyamo/hotel-booking/internal/worker"     // Background loops
)

func main() {
	_ = godotenv.Load() // best effort; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories share one policy flag so availability reads and the
	// allocation path agree on the overlap rule.
	hotels := repository.NewHotelRepo(db, cfg.AllowSameDayTurnover)
	rooms := repository.NewRoomRepo(db, cfg.AllowSameDayTurnover)
	facilities := repository.NewFacilityRepo(db)
	bookings := repository.NewBookingRepo(db, cfg.AllowSameDayTurnover)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	hotelH := handler.NewHotelHandler(hotels)
	roomH := handler.NewRoomHandler(hotels, rooms, facilities)
	facilityH := handler.NewFacilityHandler(facilities)
	bookingH := handler.NewBookingHandler(hotels, rooms, bookings)
	imageH := handler.NewImageHandler(cfg.UploadDir)

	// Redis is optional: when it is unreachable the cache middleware
	// degrades to a pass-through.
	rdb := config.NewRedisClient()
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New() // Create Echo instance
	e.Use(middleware.Metrics())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, hotelH, roomH, facilityH, cache)
	router.RegisterProtected(e, cfg.JWTSecret, hotelH, roomH, facilityH, bookingH, imageH)

	// Broker consumers and the reminder loop run for the lifetime of the
	// process; their reconnect loops never return under normal operation.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := queue.StartImageConsumer(); err != nil {
			log.Printf("image-consumer stopped: %v", err)
		}
	}()
	go worker.NewCheckinReminder(bookings, 0).Run(context.Background())

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
