package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

const (
	DefaultNotificationTimeout = 10 * time.Second
	DefaultOutboxLease         = 2 * time.Minute
	recentLimit                = 5
)

var listSort = pagination.SortSpec{
	Allowed: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"status":    "status",
	},
	DefaultField: "createdAt",
	DefaultDesc:  true,
}

// Service owns the adoption lifecycle: submissions, admin transitions and the
// pet availability flag those transitions maintain.
type Service struct {
	stores     ports.Stores
	tx         ports.TransactionManager
	documents  ports.DocumentStore
	directory  ports.ApplicantDirectory
	dispatcher ports.NotificationDispatcher
	validator  *validation.Validator
	logger     *slog.Logger

	now           func() time.Time
	newID         func() string
	notifyTimeout time.Duration
	outboxLease   time.Duration
}

type Option func(*Service)

func WithDocuments(store ports.DocumentStore) Option {
	return func(s *Service) { s.documents = store }
}

func WithDirectory(directory ports.ApplicantDirectory) Option {
	return func(s *Service) { s.directory = directory }
}

func WithDispatcher(dispatcher ports.NotificationDispatcher) Option {
	return func(s *Service) { s.dispatcher = dispatcher }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithNotificationTimeout bounds how long a status update waits for delivery.
func WithNotificationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

// WithOutboxLease sets how long the relay leaves a fresh outbox entry to the request path.
func WithOutboxLease(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.outboxLease = d
		}
	}
}

// NewService wires the lifecycle. stores serve reads outside transactions; tx runs writes.
func NewService(stores ports.Stores, tx ports.TransactionManager, opts ...Option) *Service {
	s := &Service{
		stores:        stores,
		tx:            tx,
		validator:     validation.New(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:           time.Now,
		newID:         uuid.NewString,
		notifyTimeout: DefaultNotificationTimeout,
		outboxLease:   DefaultOutboxLease,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit files a Pending application. Required fields are checked before the
// uploaded document is staged, and the staged copy is removed on every failure path.
func (s *Service) Submit(ctx context.Context, input types.SubmitInput) (*types.AdoptionDetails, error) {
	hasDocument := input.Document != nil && input.Document.Content != nil
	input = normalizeSubmit(input)
	if missing := missingFields(input, hasDocument); len(missing) > 0 {
		return nil, mapError(missing)
	}

	var doc ports.StagedDocument
	if hasDocument {
		if s.documents == nil {
			return nil, errors.New("document storage not configured")
		}
		staged, err := s.documents.Stage(ctx, input.Document.Filename, input.Document.Content)
		if err != nil {
			return nil, mapError(err)
		}
		doc = staged
		defer s.release(ctx, doc)
	}

	pet, err := s.stores.Pets().Get(ctx, input.PetID)
	if err != nil {
		return nil, mapError(err)
	}
	if pet.IsAdopted {
		return nil, conflict(ErrPetAlreadyAdopted)
	}
	if _, err := s.stores.Adoptions().FindActive(ctx, input.PetID, input.ApplicantID); err == nil {
		return nil, conflict(ErrDuplicateApplication)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	if err := s.validator.Struct(input); err != nil {
		return nil, mapError(err)
	}

	key, err := doc.Commit(ctx)
	if err != nil {
		return nil, err
	}
	adoption, err := domain.NewAdoption(s.newID(), domain.Application{
		PetID:       input.PetID,
		ApplicantID: input.ApplicantID,
		PersonalDetails: domain.PersonalDetails{
			Phone:       input.PersonalDetails.Phone,
			IDProofType: domain.IDProofType(input.PersonalDetails.IDProofType),
			IDProofFile: key,
		},
		LivingSituation: domain.LivingSituation{
			HomeType:         domain.HomeType(input.LivingSituation.HomeType),
			HasYard:          input.LivingSituation.HasYard,
			OtherPets:        input.LivingSituation.OtherPets,
			OtherPetsDetails: input.LivingSituation.OtherPetsDetails,
		},
		Experience: domain.Experience{
			HasExperience:     input.Experience.HasExperience,
			ExperienceDetails: input.Experience.ExperienceDetails,
		},
		ReasonForAdoption: input.ReasonForAdoption,
		AdditionalNotes:   input.AdditionalNotes,
	}, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.stores.Adoptions().Create(ctx, adoption)
	if err != nil {
		return nil, mapError(err)
	}
	doc.Keep()
	return &types.AdoptionDetails{Adoption: created, Pet: pet}, nil
}

// Get returns one adoption to its applicant or an admin.
func (s *Service) Get(ctx context.Context, input types.GetInput) (*types.AdoptionDetails, error) {
	current, err := s.stores.Adoptions().Get(ctx, input.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if !input.Actor.Admin && !current.Entity.Owner(input.Actor.UserID) {
		return nil, ErrForbidden
	}
	return s.withPet(ctx, current, nil)
}

// List pages through all adoptions for admins.
func (s *Service) List(ctx context.Context, input types.ListInput) (*types.AdoptionPage, error) {
	var filter ports.ListFilter
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return nil, mapError(err)
		}
		filter.Status = &status
	}
	params := pagination.Normalize(pagination.Request{
		Page:      input.Page,
		Limit:     input.Limit,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	}, listSort)
	items, total, err := s.stores.Adoptions().List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	details, err := s.withPets(ctx, items)
	if err != nil {
		return nil, err
	}
	return &types.AdoptionPage{Items: details, Meta: pagination.NewMeta(params, total)}, nil
}

// ListMine returns every application of one applicant, newest first.
func (s *Service) ListMine(ctx context.Context, applicantID string) ([]*types.AdoptionDetails, error) {
	items, _, err := s.stores.Adoptions().List(ctx,
		ports.ListFilter{ApplicantID: applicantID},
		pagination.Params{Page: 1, SortField: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return s.withPets(ctx, items)
}

// UpdateStatus applies an admin transition. The status write, the pet flag and the
// outbox entry commit together; delivery is attempted after commit and never fails the call.
func (s *Service) UpdateStatus(ctx context.Context, input types.UpdateStatusInput) (*types.StatusUpdateResult, error) {
	next, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}

	var (
		result types.StatusUpdateResult
		outbox *domain.Notification
	)
	err = s.tx.Execute(ctx, func(stores ports.Stores) error {
		current, err := stores.Adoptions().GetForUpdate(ctx, input.ID)
		if err != nil {
			return err
		}
		adoption := current.Entity
		pet, err := stores.Pets().GetForUpdate(ctx, adoption.PetID)
		if err != nil && !errors.Is(err, ports.ErrPetNotFound) {
			return err
		}
		if next == domain.StatusApproved && adoption.Status != domain.StatusApproved {
			taken, err := stores.Adoptions().HasApproved(ctx, adoption.PetID, adoption.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflict(ErrAnotherApproved)
			}
		}

		change, err := adoption.Transition(next, input.AdminNotes, s.now())
		if err != nil {
			return err
		}
		updated, err := stores.Adoptions().Update(ctx, adoption)
		if err != nil {
			return err
		}
		if pet != nil {
			if err := syncPetFlag(ctx, stores, pet); err != nil {
				return err
			}
		}
		result = types.StatusUpdateResult{Adoption: &types.AdoptionDetails{Adoption: updated, Pet: pet}, Changed: change.Changed()}
		if !change.Changed() {
			return nil
		}
		outbox, err = s.newNotification(ctx, change, pet)
		if err != nil || outbox == nil {
			return err
		}
		return stores.Outbox().Add(ctx, outbox)
	})
	if err != nil {
		return nil, mapError(err)
	}
	if outbox != nil {
		result.EmailSent = s.notify(ctx, outbox.ID)
	}
	return &result, nil
}

// Delete removes an adoption and recomputes the pet's availability in the same transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.tx.Execute(ctx, func(stores ports.Stores) error {
		current, err := stores.Adoptions().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		pet, err := stores.Pets().GetForUpdate(ctx, current.Entity.PetID)
		if err != nil && !errors.Is(err, ports.ErrPetNotFound) {
			return err
		}
		if err := stores.Adoptions().Delete(ctx, id); err != nil {
			return err
		}
		if pet == nil {
			return nil
		}
		return syncPetFlag(ctx, stores, pet)
	})
	return mapError(err)
}

// Stats returns per-status counts and the most recent Pending and Approved applications.
func (s *Service) Stats(ctx context.Context) (*types.Stats, error) {
	counts, err := s.stores.Adoptions().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &types.Stats{ByStatus: map[domain.Status]int64{
		domain.StatusPending:  counts[domain.StatusPending],
		domain.StatusApproved: counts[domain.StatusApproved],
		domain.StatusRejected: counts[domain.StatusRejected],
	}}
	for _, n := range stats.ByStatus {
		stats.Total += n
	}
	if stats.RecentPending, err = s.recent(ctx, domain.StatusPending); err != nil {
		return nil, err
	}
	if stats.RecentApproved, err = s.recent(ctx, domain.StatusApproved); err != nil {
		return nil, err
	}
	return stats, nil
}

// Reconcile recomputes every pet's availability from Approved adoptions and repairs drift.
func (s *Service) Reconcile(ctx context.Context) (*types.ReconcileReport, error) {
	report := &types.ReconcileReport{}
	err := s.tx.Execute(ctx, func(stores ports.Stores) error {
		approved, err := stores.Adoptions().ApprovedPetIDs(ctx)
		if err != nil {
			return err
		}
		adopted, err := stores.Pets().AdoptedIDs(ctx)
		if err != nil {
			return err
		}
		report.MarkedAdopted = difference(approved, adopted)
		report.MarkedAvailable = difference(adopted, approved)
		if _, err := stores.Pets().SetAdoptedBulk(ctx, report.MarkedAdopted, true); err != nil {
			return err
		}
		_, err = stores.Pets().SetAdoptedBulk(ctx, report.MarkedAvailable, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) recent(ctx context.Context, status domain.Status) ([]*types.AdoptionDetails, error) {
	items, _, err := s.stores.Adoptions().List(ctx,
		ports.ListFilter{Status: &status},
		pagination.Params{Page: 1, Limit: recentLimit, SortField: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return s.withPets(ctx, items)
}

// newNotification prepares the outbox entry for a change. A directory failure only costs the email.
func (s *Service) newNotification(ctx context.Context, change domain.StatusChanged, pet *types.PetSummary) (*domain.Notification, error) {
	if s.directory == nil {
		return nil, nil
	}
	recipient, err := s.directory.Lookup(ctx, change.ApplicantID)
	if err != nil || strings.TrimSpace(recipient.Email) == "" {
		attrs := []slog.Attr{slog.String("adoption.id", change.AdoptionID), slog.String("applicant.id", change.ApplicantID)}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "skipping status notification: applicant has no reachable email", attrs...)
		return nil, nil
	}
	petName := ""
	if pet != nil {
		petName = pet.Name
	}
	return domain.NewNotification(s.newID(), change, recipient, petName, s.now(), s.outboxLease), nil
}

// notify attempts delivery bounded by the notification timeout. The request context's
// cancellation is ignored so a disconnecting admin does not abort the send.
func (s *Service) notify(ctx context.Context, notificationID string) bool {
	if s.dispatcher == nil {
		return false
	}
	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	if err := s.dispatcher.Dispatch(dispatchCtx, notificationID); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "status notification not delivered, left for the outbox relay",
			slog.String("notification.id", notificationID),
			slog.String("error", err.Error()),
		)
		return false
	}
	return true
}

func (s *Service) release(ctx context.Context, doc ports.StagedDocument) {
	if err := doc.Release(context.WithoutCancel(ctx)); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to remove uploaded document",
			slog.String("document.key", doc.Key()),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) withPet(ctx context.Context, item *types.AdoptionProjection, cache map[string]*types.PetSummary) (*types.AdoptionDetails, error) {
	petID := item.Entity.PetID
	if pet, ok := cache[petID]; ok {
		return &types.AdoptionDetails{Adoption: item, Pet: pet}, nil
	}
	pet, err := s.stores.Pets().Get(ctx, petID)
	if err != nil && !errors.Is(err, ports.ErrPetNotFound) {
		return nil, err
	}
	if cache != nil {
		cache[petID] = pet
	}
	return &types.AdoptionDetails{Adoption: item, Pet: pet}, nil
}

func (s *Service) withPets(ctx context.Context, items []*types.AdoptionProjection) ([]*types.AdoptionDetails, error) {
	cache := map[string]*types.PetSummary{}
	out := make([]*types.AdoptionDetails, 0, len(items))
	for _, item := range items {
		details, err := s.withPet(ctx, item, cache)
		if err != nil {
			return nil, err
		}
		out = append(out, details)
	}
	return out, nil
}

// syncPetFlag sets isAdopted to whether any Approved adoption references the pet.
func syncPetFlag(ctx context.Context, stores ports.Stores, pet *types.PetSummary) error {
	approved, err := stores.Adoptions().HasApproved(ctx, pet.ID, "")
	if err != nil {
		return err
	}
	if pet.IsAdopted == approved {
		return nil
	}
	if err := stores.Pets().SetAdopted(ctx, pet.ID, approved); err != nil {
		return err
	}
	pet.IsAdopted = approved
	return nil
}

func normalizeSubmit(input types.SubmitInput) types.SubmitInput {
	input.PetID = strings.TrimSpace(input.PetID)
	input.ReasonForAdoption = strings.TrimSpace(input.ReasonForAdoption)
	input.AdditionalNotes = strings.TrimSpace(input.AdditionalNotes)
	if input.PersonalDetails != nil {
		pd := *input.PersonalDetails
		pd.Phone = strings.TrimSpace(pd.Phone)
		pd.IDProofType = strings.TrimSpace(pd.IDProofType)
		input.PersonalDetails = &pd
	}
	if input.LivingSituation != nil {
		ls := *input.LivingSituation
		ls.HomeType = strings.TrimSpace(ls.HomeType)
		ls.OtherPetsDetails = strings.TrimSpace(ls.OtherPetsDetails)
		input.LivingSituation = &ls
	}
	if input.Experience != nil {
		ex := *input.Experience
		ex.ExperienceDetails = strings.TrimSpace(ex.ExperienceDetails)
		input.Experience = &ex
	}
	return input
}

// missingFields checks presence only; value rules run after the availability checks.
func missingFields(input types.SubmitInput, hasDocument bool) validation.Errors {
	missing := validation.Errors{}
	if input.PetID == "" {
		missing.Add("pet", "is required")
	}
	if input.PersonalDetails == nil {
		missing.Add("personalDetails", "is required")
	}
	if input.LivingSituation == nil {
		missing.Add("livingSituation", "is required")
	}
	if input.Experience == nil {
		missing.Add("experience", "is required")
	}
	if input.ReasonForAdoption == "" {
		missing.Add("reasonForAdoption", "is required")
	}
	if !hasDocument {
		missing.Add("idProofFile", "is required")
	}
	return missing
}

// difference returns the sorted members of a that are not in b.
func difference(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, id := range b {
		seen[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

var _ ports.Service = (*Service)(nil)
