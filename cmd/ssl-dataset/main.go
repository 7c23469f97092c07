package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"ssl-dataset/cmd/ssl-dataset/commands"
	"ssl-dataset/lib/serviceutil"
	"ssl-dataset/lib/telemetry"
	"time"
)

func main() {
	err := telemetry.SetupFromEnv(context.Background(), "ssl-dataset")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to setup telemetry", "err", err)
	}

	commands.ExecuteContext(serviceutil.SignalContext())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = telemetry.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}
