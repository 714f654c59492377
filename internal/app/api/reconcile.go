package api

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	adoptionsapp "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application"
	adoptiontypes "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
)

// ErrNoDatabase is returned by one-shot jobs that only make sense against postgres.
var ErrNoDatabase = errors.New("POSTGRES_DSN not set or connection failed")

// RunReconciler recomputes every pet's adoption flag from Approved applications and logs the repairs.
func RunReconciler(ctx context.Context, logger *slog.Logger) (*adoptiontypes.ReconcileReport, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	repos, closeRepos, err := OpenRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeRepos()
	if repos.DB == nil {
		return nil, ErrNoDatabase
	}
	return Reconcile(ctx, repos, logger)
}

// Reconcile runs the repair pass over repos.
func Reconcile(ctx context.Context, repos *Repositories, logger *slog.Logger) (*adoptiontypes.ReconcileReport, error) {
	service := adoptionsapp.NewService(repos.AdoptionStores, repos.AdoptionTx, adoptionsapp.WithLogger(logger))
	report, err := service.Reconcile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reconcile pet availability")
	}
	logger.Info("pet availability reconciled",
		slog.Int("repaired", report.Repaired()),
		slog.Any("marked_adopted", report.MarkedAdopted),
		slog.Any("marked_available", report.MarkedAvailable),
	)
	return report, nil
}
