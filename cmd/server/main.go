package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Anurup-SarKar/JPK-service/internal/config"
	"github.com/Anurup-SarKar/JPK-service/internal/database"
	"github.com/Anurup-SarKar/JPK-service/internal/handler"
	"github.com/Anurup-SarKar/JPK-service/internal/middleware"
	"github.com/Anurup-SarKar/JPK-service/internal/password"
	"github.com/Anurup-SarKar/JPK-service/internal/queue"
	"github.com/Anurup-SarKar/JPK-service/internal/repository"
	"github.com/Anurup-SarKar/JPK-service/internal/router"
	"github.com/Anurup-SarKar/JPK-service/internal/service"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	otps := repository.NewOtpRepo(db)

	policy := password.NewPolicy(cfg.BcryptCost)
	notifier := queue.NewMailPublisher(cfg.RabbitURL)
	otpTTL := time.Duration(cfg.OtpTTLMin) * time.Minute

	authSvc := service.NewAuthService(users, otps, notifier, policy, otpTTL)
	userSvc := service.NewUserService(users, policy)
	migrationSvc := service.NewMigrationService(users, policy)

	// Background workers: mail delivery off the broker and OTP row
	// housekeeping. Both are best-effort and never block a request.
	go func() {
		if err := queue.StartMailConsumer(cfg.RabbitURL, queue.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		}); err != nil {
			log.Printf("mail-consumer stopped: %v", err)
		}
	}()
	go service.RunOtpReaper(context.Background(), otps, time.Hour)

	// Redis-backed response cache; nil client degrades to a passthrough.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAPI(e,
		handler.NewAuthHandler(authSvc, policy),
		handler.NewUserHandler(userSvc),
		handler.NewAdminHandler(migrationSvc),
		cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
