package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopviet-be/internal/cart"
	"shopviet-be/internal/category"
	"shopviet-be/internal/config"
	"shopviet-be/internal/db"
	"shopviet-be/internal/logger"
	"shopviet-be/internal/mailer"
	"shopviet-be/internal/notification"
	"shopviet-be/internal/order"
	"shopviet-be/internal/payment"
	"shopviet-be/internal/product"
	"shopviet-be/internal/review"
	"shopviet-be/internal/settings"
	"shopviet-be/internal/transport/rest"
	"shopviet-be/internal/user"
	"shopviet-be/internal/vnpay"
	"shopviet-be/internal/wishlist"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	settingsRepo := settings.NewRepository(database)
	settingsSvc := settings.NewService(settingsRepo)
	if err := settingsSvc.Load(context.Background()); err != nil {
		logger.L().Fatal("failed to load settings", zap.Error(err))
	}

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, cfg.JWTSecret)

	categoryRepo := category.NewRepository(database)
	categorySvc := category.NewService(categoryRepo)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo)

	notificationRepo := notification.NewRepository(database)
	notificationSvc := notification.NewService(notificationRepo)

	producer := mailer.NewProducer(asynqClient)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productRepo, settingsSvc, producer)

	gateway := vnpay.New(vnpay.Config{
		TmnCode:    cfg.VNPayTmnCode,
		HashSecret: cfg.VNPayHashSecret,
		GatewayURL: cfg.VNPayURL,
		ReturnURL:  cfg.VNPayReturnURL,
	})
	paymentSvc := payment.NewService(gateway, orderRepo, orderSvc, producer)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo)

	wishlistRepo := wishlist.NewRepository(database)
	wishlistSvc := wishlist.NewService(wishlistRepo, productRepo)

	router := rest.NewRouter(rest.Config{
		Users:         userSvc,
		Products:      productSvc,
		Categories:    categorySvc,
		Carts:         cartSvc,
		Orders:        orderSvc,
		Payments:      paymentSvc,
		Reviews:       reviewSvc,
		Settings:      settingsSvc,
		Notifications: notificationSvc,
		Wishlists:     wishlistSvc,

		JWTSecret:      cfg.JWTSecret,
		FrontendURL:    cfg.FrontendURL,
		InternalAPIKey: os.Getenv("INTERNAL_SECRET_KEY"),
		Production:     cfg.AppEnv == "production",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.L().Info("http server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("graceful shutdown failed", zap.Error(err))
	}
}
