// Command migrate sets status=Pending on appointments stored before the
// status field existed.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-clinic-api/internal/application/appointment"
	"github.com/go-clinic-api/internal/config"
	"github.com/go-clinic-api/internal/infrastructure/dynamo"
	"github.com/go-clinic-api/internal/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.New(cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("dynamodb client", "err", err)
		os.Exit(1)
	}
	svc := appointment.NewService(appointment.ServiceDeps{
		Repo: dynamo.NewAppointmentRepo(client, cfg.DynamoTables.Appointments),
	})

	n, err := svc.BackfillStatus(ctx)
	if err != nil {
		slog.Error("backfill failed", "updated", n, "err", err)
		os.Exit(1)
	}
	slog.Info("backfill complete", "updated", n)
}
