package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/cache"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables the balance cache and
	// rate limiting but never blocks startup.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, balance cache and rate limiting disabled")
	}
	balanceCache := cache.New(rdb, cfg.BalanceCacheTTL)

	// Notifications are fire-and-forget; without a broker URL they are
	// dropped silently via the no-op notifier.
	var notifier service.Notifier = service.NopNotifier{}
	if cfg.RabbitURL != "" {
		notifier = queue.NewPublisher(cfg.RabbitURL)
		go func() {
			if err := queue.StartNotificationConsumer(cfg.RabbitURL); err != nil {
				log.Printf("notification consumer stopped: %v", err)
			}
		}()
	}

	users := repository.NewUserRepo(db)
	hotels := repository.NewHotelRepo(db)
	rooms := repository.NewRoomRepo(db)
	availability := repository.NewAvailabilityRepo(db)
	bookings := repository.NewBookingRepo(db)
	ledger := repository.NewLedgerRepo(db)
	balances := repository.NewBalanceRepo(db)

	wallet := service.NewWalletService(db, ledger, balances, balanceCache, notifier)
	booking := service.NewBookingService(db, hotels, rooms, availability, bookings, wallet, notifier)

	e := echo.New()
	e.HideBanner = true

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		Hotel:        handler.NewHotelHandler(hotels, rooms),
		Availability: handler.NewAvailabilityHandler(hotels, rooms, availability),
		Booking:      handler.NewBookingHandler(booking),
		Wallet:       handler.NewWalletHandler(wallet),
	}, cfg.JWTSecret, rl)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
