// Package apiserver wires the full HTTP service: storage, rotation,
// menu, backup, notification dispatch and metrics.
package apiserver

import (
	"context"
	"fmt"
	"time"

	"tableserve/internal/api"
	"tableserve/internal/backup"
	"tableserve/internal/cleanup"
	"tableserve/internal/common/config"
	"tableserve/internal/common/db"
	"tableserve/internal/common/httpx"
	"tableserve/internal/common/logger"
	"tableserve/internal/common/mq"
	"tableserve/internal/menu"
	"tableserve/internal/metrics"
	"tableserve/internal/notify"
	"tableserve/internal/orders"
	"tableserve/internal/sheetstore"
)

func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("api-server")

	loc, err := time.LoadLocation(cfg.Restaurant.Timezone)
	if err != nil {
		lg.Warn("timezone_load_failed", map[string]any{"timezone": cfg.Restaurant.Timezone, "error": err.Error()})
		loc = time.UTC
	}

	var store sheetstore.Store
	var conn *db.Conn
	switch cfg.Storage.Mode {
	case "postgres":
		conn, err = db.Connect(ctx, cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer conn.Close()
		pg := sheetstore.NewPostgres(conn.Pool)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate sheet store: %w", err)
		}
		store = pg
	default:
		lg.Warn("memory_storage_active", map[string]any{"mode": cfg.Storage.Mode})
		store = sheetstore.NewMemory()
	}
	rot := sheetstore.NewRotator(store, cfg.Storage.OrdersSheetName, cfg.Storage.MaxRowsPerSheet, sheetstore.OrderHeader, lg)

	bak, err := backup.Open(cfg.Storage.BackupDir)
	if err != nil {
		return fmt.Errorf("open backup store: %w", err)
	}
	defer bak.Close()

	if cfg.Storage.CleanupRetentionHours > 0 {
		retention := time.Duration(cfg.Storage.CleanupRetentionHours) * time.Hour
		sweeper := cleanup.NewWorker(bak, 24*time.Hour, retention, lg)
		go sweeper.Run(ctx)
	}

	var dispatcher *notify.Dispatcher
	var failedStore notify.FailedStore
	mqc, err := mq.Dial(cfg.Rabbit.Host, cfg.Rabbit.Port, cfg.Rabbit.User, cfg.Rabbit.Password)
	if err != nil {
		lg.Warn("rabbitmq_unavailable", map[string]any{"error": err.Error()})
	} else {
		defer mqc.Close()
		if err := mqc.DeclareAll(); err != nil {
			return fmt.Errorf("declare queues: %w", err)
		}
		dispatcher = notify.NewDispatcher(mqc, notify.DispatcherOptions{
			CustomerEmailEnabled: cfg.SMTP.CustomerEnabled,
			OwnerEmail:           cfg.SMTP.OwnerEmail,
			OwnerTelegramChatID:  cfg.Telegram.OwnerChatID,
		}, lg)
		if conn != nil {
			fp := notify.NewFailedPG(conn.Pool)
			if err := fp.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate failed notifications: %w", err)
			}
			failedStore = fp
		}
	}

	var fallback menu.RowSource
	if cfg.Menu.SheetCSVURL != "" {
		fallback = menu.NewCSVSource(cfg.Menu.SheetCSVURL)
	}
	menuSvc := menu.NewService(store, fallback, cfg.Menu.SheetName, time.Duration(cfg.Menu.CacheTTL)*time.Second, lg)

	var svcDispatcher orders.Dispatcher
	if dispatcher != nil {
		svcDispatcher = dispatcher
	}
	svc := orders.NewService(rot, store, svcDispatcher, bak, orders.Options{
		ContactMode:     orders.ContactMode(cfg.Restaurant.ContactMode),
		Location:        loc,
		PersistFallback: cfg.Storage.PersistFallback,
	}, lg)

	reg := metrics.NewRegistry()
	h := api.NewHandler(svc, menuSvc, bak, dispatcher, failedStore, reg,
		api.RestaurantInfo{Name: cfg.Restaurant.Name, Tagline: cfg.Restaurant.Tagline},
		cfg.Storage.Mode, lg)
	router := api.Router(h, reg.Handler(), cfg.HTTP.AllowedOrigins, lg)

	lg.Info("listening", map[string]any{"port": cfg.HTTP.Port, "storage": cfg.Storage.Mode})
	srv := httpx.New(fmt.Sprintf(":%d", cfg.HTTP.Port), router)
	return srv.Run(ctx)
}
