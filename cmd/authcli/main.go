package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/resty-auth-driver/internal/app"
	"github.com/samvad-hq/resty-auth-driver/internal/config"
	"github.com/samvad-hq/resty-auth-driver/internal/logger"
)

const usage = "usage: authcli METHOD PATH [JSON_BODY]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "authcli failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%s", usage)
	}

	var body any
	if len(args) == 3 {
		if err := json.Unmarshal([]byte(args[2]), &body); err != nil {
			return fmt.Errorf("decode JSON_BODY: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.S.DebugObj("authcli starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := app.NewClient(cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize client", "error", err)
		return err
	}
	defer client.Close()

	status, payload, err := client.Do(ctx, args[0], args[1], body)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if status >= 400 {
		return fmt.Errorf("server responded with status %d", status)
	}
	return nil
}
