package main

import (
	"strconv"

	"shopviet-be/internal/config"
	"shopviet-be/internal/db"
	"shopviet-be/internal/logger"
	"shopviet-be/internal/mailer"
	"shopviet-be/internal/notification"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	notificationSvc := notification.NewService(notification.NewRepository(database))

	smtpPort, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		logger.L().Fatal("invalid SMTP port", zap.String("port", cfg.SMTPPort))
	}
	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     smtpPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	})

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 5,
			},
		},
	)

	mux := asynq.NewServeMux()
	mailer.NewHandler(sender, notificationSvc).Register(mux)

	logger.L().Info("worker started", zap.String("redis", cfg.RedisAddr))
	if err := srv.Run(mux); err != nil {
		logger.L().Fatal("worker stopped", zap.Error(err))
	}
}
