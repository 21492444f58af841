// Command exportusers uploads a JSON snapshot of all users (username, email,
// createdAt) to the configured S3 bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-clinic-api/internal/application/user"
	"github.com/go-clinic-api/internal/config"
	"github.com/go-clinic-api/internal/infrastructure/dynamo"
	s3infra "github.com/go-clinic-api/internal/infrastructure/s3"
	"github.com/go-clinic-api/internal/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	slog.SetDefault(logging.New(cfg.LogLevel))

	defaultKey := fmt.Sprintf("exports/users-%s.json", time.Now().UTC().Format("20060102T150405Z"))
	key := flag.String("key", defaultKey, "S3 object key for the snapshot")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("dynamodb client", "err", err)
		os.Exit(1)
	}
	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("s3 client", "err", err)
		os.Exit(1)
	}

	svc := user.NewService(
		dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.UserUniques),
		s3infra.NewStore(s3Client, cfg.S3BucketName),
	)
	loc, err := svc.Export(ctx, *key)
	if err != nil {
		slog.Error("export failed", "err", err)
		os.Exit(1)
	}
	slog.Info("users exported", "location", loc)
}
