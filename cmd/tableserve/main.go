package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tableserve/internal/app/apiserver"
	"tableserve/internal/app/notifyworker"
	"tableserve/internal/common/config"
	"tableserve/internal/common/logger"
)

func main() {
	mode := flag.String("mode", "", "api-server | notify-worker")
	port := flag.Int("port", 0, "api-server: override http port")
	workerName := flag.String("worker-name", "", "notify-worker: consumer name")
	prefetch := flag.Int("prefetch", 1, "notify-worker: RabbitMQ prefetch")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		lg.Error("config_load_failed", err, nil)
		os.Exit(1)
	}

	switch *mode {
	case "api-server":
		if *port != 0 {
			cfg.HTTP.Port = *port
		}
		lg.Info("service_started", map[string]any{"service": "api-server", "port": cfg.HTTP.Port})
		if err := apiserver.Run(ctx, cfg); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notify-worker":
		lg.Info("service_started", map[string]any{"service": "notify-worker", "worker": *workerName})
		if err := notifyworker.Run(ctx, cfg, notifyworker.Options{Name: *workerName, Prefetch: *prefetch}); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: api-server | notify-worker")
		os.Exit(2)
	}
}
