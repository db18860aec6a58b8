package main

import (
	stdcontext "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/croessner/smtp-login/config"
	"github.com/croessner/smtp-login/context"
	"github.com/croessner/smtp-login/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Println("Error loading configuration:", err)

		os.Exit(1)
	}

	if err = cfg.Validate(); err != nil {
		fmt.Println("Configuration is invalid:", err)

		os.Exit(1)
	}

	sigCtx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)

	ctx := context.NewContextFrom(sigCtx)

	log.SetupLogging(ctx, cfg)

	code := runClient(ctx, cfg)

	stop()
	os.Exit(code)
}
