// Command relay runs the broadcast relay on a single port shared by raw TCP
// line clients and WebSocket clients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"github.com/omochice/relay-chat/internal/chat"
	"github.com/omochice/relay-chat/internal/relay"
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		return 2, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	srv := relay.New(cfg.Addr, chat.NewHub(log), log, cfg.QueueSize)
	if err := srv.Listen(); err != nil {
		return 1, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve()
	}()

	select {
	case err := <-errChan:
		srv.Stop()
		if err != nil {
			return 1, fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		srv.Stop()
	}

	log.Info("relay stopped")
	return 0, nil
}
