package main

import (
	"log/slog"

	"github.com/croessner/smtp-login/auth"
	"github.com/croessner/smtp-login/config"
	"github.com/croessner/smtp-login/context"
	"github.com/croessner/smtp-login/enc"
	"github.com/croessner/smtp-login/link"
	"github.com/croessner/smtp-login/log"
	"github.com/croessner/smtp-login/smtp"
	"github.com/croessner/smtp-login/smtp/commands"
	"github.com/croessner/smtp-login/version"
)

func runClient(ctx *context.Context, cfg *config.Config) int {
	logger := log.GetLogger(ctx)

	logger.Info("Starting client", slog.String(log.KeyVersion, version.Version))
	logger.Debug("Configuration loaded", slog.String("config", cfg.String()))

	tlsConfig, err := enc.GetClientTLSConfig(cfg.Client)
	if err != nil {
		logger.Error("TLS configuration failed", slog.String(log.KeyError, err.Error()))

		return 1
	}

	methods, err := auth.ParseMethods(cfg.Client.AuthMethods)
	if err != nil {
		logger.Error("Authentication method list is invalid", slog.String(log.KeyError, err.Error()))

		return 1
	}

	client := smtp.NewClient(ctx, link.NewTransport(), smtp.Options{
		Host:           cfg.Client.Host,
		DomainName:     cfg.Client.GetDomainName(),
		AuthMethods:    methods,
		TLSConfig:      tlsConfig,
		ConnectTimeout: cfg.Client.GetConnectTimeout(),
		Port:           cfg.Client.Port,
		TLSPort:        cfg.Client.GetTLSPort(),
		Secure:         cfg.Client.Secure,
	})

	session, err := client.Login(auth.Credentials{
		Username:    cfg.Client.Username,
		Password:    cfg.Client.Password,
		AccessToken: cfg.Client.AccessToken,
	})
	if err != nil {
		logger.Error("Login failed",
			slog.String(log.KeyHost, cfg.Client.Host),
			slog.String(log.KeyError, err.Error()),
		)

		return 1
	}

	noop := &commands.Noop{}
	if err = noop.Execute(session); err != nil {
		logger.Error("Session health check failed",
			slog.String(log.KeyError, err.Error()),
			session.Session(),
		)

		_ = session.Close()

		return 1
	}

	logger.Info("Session ready",
		slog.String(log.KeyHost, cfg.Client.Host),
		slog.String(log.KeyLocal, session.LocalAddr().String()),
		slog.String(log.KeyRemote, session.RemoteAddr().String()),
		session.Session(),
	)

	if err = session.Quit(); err != nil {
		logger.Warn("Error closing session",
			slog.String(log.KeyError, err.Error()),
			session.Session(),
		)
	}

	return 0
}
