package handler

import (
	"log/slog"
	"os"
	"testing"

	"github.com/go-clinic-api/internal/pkg/logging"
)

func TestMain(m *testing.M) {
	slog.SetDefault(logging.Discard())
	os.Exit(m.Run())
}
