package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/pawhaven-api/internal/app/api"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	report, err := api.RunReconciler(ctx, logger)
	if err != nil {
		log.Fatalf("reconcile failed: %v", err)
	}
	log.Printf("reconcile completed, %d pets repaired", report.Repaired())
}
