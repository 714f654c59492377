package ports

import (
	"context"
	"errors"
	"io"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
)

// ApplicantDirectory resolves applicant contact details for notifications.
type ApplicantDirectory interface {
	Lookup(ctx context.Context, userID string) (domain.Recipient, error)
}

// NotificationDispatcher hands an outbox entry to a delivery mechanism and
// returns nil only once the entry was delivered.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notificationID string) error
}

// NotificationDeliverer performs one delivery attempt and records its outcome on the entry.
type NotificationDeliverer interface {
	Deliver(ctx context.Context, notificationID string) error
}

// EmailMessage is a rendered status notification.
type EmailMessage struct {
	NotificationID string
	AdoptionID     string
	To             string
	ToName         string
	Subject        string
	HTMLBody       string
	PetName        string
	PreviousStatus domain.Status
	Status         domain.Status
}

// Mailer sends rendered notifications.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

var (
	ErrDocumentTooLarge    = errors.New("document exceeds the 5MB limit")
	ErrDocumentUnsupported = errors.New("document must be a PDF or JPEG")
)

// DocumentStore stages uploaded identity documents.
type DocumentStore interface {
	Stage(ctx context.Context, filename string, content io.Reader) (StagedDocument, error)
}

// StagedDocument is an uploaded document awaiting the outcome of a submission.
// Release deletes the current key unless Keep was called; callers defer it right after Stage.
type StagedDocument interface {
	Key() string
	Commit(ctx context.Context) (string, error)
	Keep()
	Release(ctx context.Context) error
}
