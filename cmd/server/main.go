package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/ericfaux/dockslot-app-sub004/internal/config"
	"github.com/ericfaux/dockslot-app-sub004/internal/database"
	"github.com/ericfaux/dockslot-app-sub004/internal/queue"
	"github.com/ericfaux/dockslot-app-sub004/internal/repository"
	"github.com/ericfaux/dockslot-app-sub004/internal/router"
	"github.com/ericfaux/dockslot-app-sub004/internal/service"
)

func main() {
	// Local development keeps its settings in .env; in production the
	// variables come from the environment and the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, guest routes fall back to the in-process limiter")
	}

	svc := service.NewBookingService(
		repository.NewBookingRepo(db),
		repository.NewFleetRepo(db),
		repository.NewOfferRepo(db),
		repository.NewPaymentRepo(db),
		repository.NewTokenRepo(db),
		repository.NewAuditRepo(db),
		repository.NewScheduleRepo(db),
		queue.NewPublisher(),
		service.NewSlidingWindowLimiter(cfg.GuestLookupMax, cfg.GuestLookupWindow, nil),
		nil,
	)

	// The notification consumer runs inside the server process and
	// survives broker outages via its own reconnect loop.
	go func() {
		if err := queue.StartNotifyConsumer(); err != nil {
			log.Printf("notify consumer stopped: %v", err)
		}
	}()

	e := router.New(svc, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
