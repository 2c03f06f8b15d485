// Command peer is one side of the two-party chat. It connects to the relay
// named by CHAT_RELAY_ADDR, prints a banner and then a prompt, sending each
// non-blank line tagged with CHAT_IDENTITY.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gookit/color"
	"github.com/joho/godotenv"

	"github.com/omochice/relay-chat/internal/channel"
	"github.com/omochice/relay-chat/internal/prompt"
	"github.com/omochice/relay-chat/internal/session"
	"github.com/omochice/relay-chat/internal/transport"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitConfigError = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the session and blocks until it ends. Any end of the session
// (relay closed, relay unreachable, input closed, interrupt) exits 0.
func run() (int, error) {
	_ = godotenv.Load()
	cfg, err := loadConfig()
	if err != nil {
		return exitConfigError, fmt.Errorf("config error: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	dialer := transport.DialerFunc(func(ctx context.Context, address string) (transport.Conn, error) {
		ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
		return transport.Dial(ctx, address)
	})

	ch := channel.New(cfg.RelayAddr, dialer, log)
	pr := prompt.New(os.Stdin, os.Stdout)
	opts := []session.Option{session.WithLogger(log)}
	if cfg.Color {
		opts = append(opts, session.WithStyle(colorStyle()))
	}
	s := session.New(cfg.Identity, cfg.RelayAddr, ch, pr, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx); err != nil {
		return exitFailure, err
	}
	return exitOK, nil
}

// newLogger writes diagnostics to stderr so they never share stdout with
// the prompt.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func colorStyle() session.Style {
	return session.Style{
		Sender: render(color.New(color.FgCyan, color.OpBold)),
		Notice: render(color.New(color.FgYellow)),
		Error:  render(color.New(color.FgRed)),
	}
}

func render(style color.Style) func(string) string {
	return func(s string) string {
		return style.Render(s)
	}
}
