package ports

import (
	"context"

	adoptiontypes "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
)

// Service is the adoption lifecycle consumed by transport adapters.
type Service interface {
	Submit(ctx context.Context, input adoptiontypes.SubmitInput) (*adoptiontypes.AdoptionDetails, error)
	Get(ctx context.Context, input adoptiontypes.GetInput) (*adoptiontypes.AdoptionDetails, error)
	List(ctx context.Context, input adoptiontypes.ListInput) (*adoptiontypes.AdoptionPage, error)
	ListMine(ctx context.Context, applicantID string) ([]*adoptiontypes.AdoptionDetails, error)
	UpdateStatus(ctx context.Context, input adoptiontypes.UpdateStatusInput) (*adoptiontypes.StatusUpdateResult, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*adoptiontypes.Stats, error)
	Reconcile(ctx context.Context) (*adoptiontypes.ReconcileReport, error)
}
