// Package notifyworker runs the queue consumer that actually delivers
// emails and telegram alerts.
package notifyworker

import (
	"context"
	"fmt"

	"tableserve/internal/common/config"
	"tableserve/internal/common/db"
	"tableserve/internal/common/logger"
	"tableserve/internal/common/mq"
	"tableserve/internal/notify"
)

type Options struct {
	Name     string
	Prefetch int
}

func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	lg := logger.New("notify-worker")

	mqc, err := mq.Dial(cfg.Rabbit.Host, cfg.Rabbit.Port, cfg.Rabbit.User, cfg.Rabbit.Password)
	if err != nil {
		return fmt.Errorf("connect rabbitmq: %w", err)
	}
	defer mqc.Close()
	if err := mqc.DeclareAll(); err != nil {
		return fmt.Errorf("declare queues: %w", err)
	}

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = &notify.SMTPMailer{
			Host:       cfg.SMTP.Host,
			Port:       cfg.SMTP.Port,
			User:       cfg.SMTP.User,
			Password:   cfg.SMTP.Password,
			From:       cfg.SMTP.From,
			Restaurant: cfg.Restaurant.Name,
			Tagline:    cfg.Restaurant.Tagline,
		}
	} else {
		lg.Warn("smtp_not_configured", nil)
	}

	var telegram notify.TelegramSender
	if cfg.Telegram.Token != "" {
		bot, err := notify.NewOwnerBot(cfg.Telegram.Token)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}
		telegram = bot
	}

	var failed notify.FailedStore
	if cfg.Storage.Mode == "postgres" {
		conn, err := db.Connect(ctx, cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer conn.Close()
		fp := notify.NewFailedPG(conn.Pool)
		if err := fp.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate failed notifications: %w", err)
		}
		failed = fp
	}

	w := notify.NewWorker(mqc, mailer, telegram, failed, lg)
	w.Restaurant = cfg.Restaurant.Name
	w.Tagline = cfg.Restaurant.Tagline
	w.OwnerChatID = cfg.Telegram.OwnerChatID
	if opts.Name != "" {
		w.Name = opts.Name
	}
	if opts.Prefetch > 0 {
		w.Prefetch = opts.Prefetch
	}
	return w.Run(ctx)
}
