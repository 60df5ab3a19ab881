package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/garagex/garagex/internal/config"
	"github.com/garagex/garagex/internal/database"
	"github.com/garagex/garagex/internal/handler"
	"github.com/garagex/garagex/internal/queue"
	"github.com/garagex/garagex/internal/repository"
	"github.com/garagex/garagex/internal/router"
	queuepub "github.com/garagex/garagex/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is absent

	customers := repository.NewCustomerRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	jobs := repository.NewJobRepo(db)
	parts := repository.NewPartRepo(db)
	history := repository.NewStatusHistoryRepo(db)
	garages := repository.NewGarageRepo(db)
	garageUsers := repository.NewGarageUserRepo(db)
	adminUsers := repository.NewSystemUserRepo(db)

	events := &queuepub.Publisher{}

	h := router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, garageUsers, adminUsers),
		Jobs:   handler.NewJobHandler(jobs, customers, vehicles, garageUsers, parts, history, events),
		Status: handler.NewStatusHandler(jobs, history, events),
		Parts:  handler.NewPartHandler(parts, jobs),
		Admin:  handler.NewAdminGarageHandler(cfg, garages, garageUsers),
	}

	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("status consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, rdb, h)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
