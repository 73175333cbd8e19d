// Package main is the entry point for the mail gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mailsystem/mailgate/internal/access"
	"github.com/mailsystem/mailgate/internal/api"
	"github.com/mailsystem/mailgate/internal/config"
	"github.com/mailsystem/mailgate/internal/provider"
	"github.com/mailsystem/mailgate/internal/provider/resend"
	"github.com/mailsystem/mailgate/internal/provider/ses"
	"github.com/mailsystem/mailgate/internal/provider/smtp"
	"github.com/mailsystem/mailgate/internal/provider/stdout"
	gatetls "github.com/mailsystem/mailgate/internal/tls"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging.Level)

	guard, err := access.New(cfg.Access.APIKey, cfg.Access.AllowedIPs)
	if err != nil {
		slog.Error("failed to parse access configuration", "error", err)
		os.Exit(1)
	}
	if guard.Mode() == access.Unrestricted {
		slog.Warn("no API key and no IP whitelist configured; all requests are accepted")
	}

	prov, err := selectProvider(cfg)
	if err != nil {
		slog.Error("failed to create delivery provider", "error", err)
		os.Exit(1)
	}

	tlsConfig, err := gatetls.Load(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.SelfSigned)
	if err != nil {
		slog.Error("failed to setup TLS", "error", err)
		os.Exit(1)
	}

	server := api.New(cfg, guard, prov, tlsConfig)

	slog.Info("starting mailgate",
		"listen", cfg.Server.Listen,
		"provider", prov.Name(),
		"access_mode", guard.Mode().String(),
		"smtp_configured", cfg.SMTPConfigured(),
	)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, initiating shutdown", "signal", sig)
		cancel()
	}()

	if err := server.ListenAndServe(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("mailgate stopped")
}

// loadConfig loads configuration from the specified path (YAML + env
// override) or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// selectProvider creates the delivery backend named by the configuration.
func selectProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Provider {
	case "smtp", "":
		if !cfg.SMTPConfigured() {
			return nil, fmt.Errorf("smtp provider requires SMTP_SERVER, SMTP_USER, SMTP_PASSWORD and SMTP_FROM_EMAIL")
		}
		return smtp.New(smtp.Config{
			Host:     cfg.SMTP.Server,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			UseTLS:   cfg.SMTP.UseTLS,
		}), nil

	case "ses":
		if cfg.SES.Region == "" {
			return nil, fmt.Errorf("ses provider requires SES_REGION")
		}
		return ses.New(context.Background(), ses.Config{
			Region:          cfg.SES.Region,
			AccessKeyID:     cfg.SES.AccessKeyID,
			SecretAccessKey: cfg.SES.SecretAccessKey,
		})

	case "resend":
		if cfg.Resend.APIKey == "" {
			return nil, fmt.Errorf("resend provider requires RESEND_API_KEY")
		}
		return resend.New(cfg.Resend.APIKey), nil

	case "stdout":
		return stdout.New(), nil

	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// setupLogger configures the global slog logger with JSON output and the
// specified log level.
func setupLogger(level string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
