package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	adoptionpets "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/pets"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	petdomain "github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	petpostgres "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/persistence/postgres"
	"github.com/Apurer/pawhaven-api/internal/platform/postgres/pgtest"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
)

func newAdoption(t *testing.T, id, petID, applicantID string) *domain.Adoption {
	t.Helper()
	a, err := domain.NewAdoption(id, domain.Application{
		PetID:       petID,
		ApplicantID: applicantID,
		PersonalDetails: domain.PersonalDetails{
			Phone:       "9876543210",
			IDProofType: domain.IDProofAadhar,
			IDProofFile: "id-proofs/" + id + ".pdf",
		},
		LivingSituation:   domain.LivingSituation{HomeType: domain.HomeApartment, OtherPets: true, OtherPetsDetails: "one cat"},
		Experience:        domain.Experience{HasExperience: true, ExperienceDetails: "grew up with dogs"},
		ReasonForAdoption: "Looking for a companion for long walks",
	}, time.Now())
	require.NoError(t, err)
	return a
}

func sqlitePets(db *gorm.DB) ports.PetStore {
	return adoptionpets.New(petpostgres.NewRepository(db))
}

func TestRepository_CreateGetUpdateDelete(t *testing.T) {
	repo := NewRepository(pgtest.SQLite(t, Migrate))
	ctx := context.Background()

	created, err := repo.Create(ctx, newAdoption(t, "a-1", "p-1", "u-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Entity.Status)
	assert.False(t, created.Metadata.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.IDProofAadhar, got.Entity.PersonalDetails.IDProofType)
	assert.Equal(t, "one cat", got.Entity.LivingSituation.OtherPetsDetails)
	assert.Equal(t, "grew up with dogs", got.Entity.Experience.ExperienceDetails)

	notes := "home visit done"
	adoption := got.Entity
	_, err = adoption.Transition(domain.StatusApproved, &notes, time.Now())
	require.NoError(t, err)
	updated, err := repo.Update(ctx, adoption)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Entity.Status)
	assert.Equal(t, "home visit done", updated.Entity.AdminNotes)
	assert.Equal(t, created.Metadata.CreatedAt.Unix(), updated.Metadata.CreatedAt.Unix())

	locked, err := repo.GetForUpdate(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "a-1", locked.Entity.ID)

	require.NoError(t, repo.Delete(ctx, "a-1"))
	_, err = repo.Get(ctx, "a-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "a-1"), ports.ErrNotFound)
	_, err = repo.Update(ctx, adoption)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ActiveIndexRejectsDuplicates(t *testing.T) {
	repo := NewRepository(pgtest.SQLite(t, Migrate))
	ctx := context.Background()

	_, err := repo.Create(ctx, newAdoption(t, "a-1", "p-1", "u-1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newAdoption(t, "a-2", "p-1", "u-1"))
	require.ErrorIs(t, err, ports.ErrDuplicateActive)

	first, err := repo.Get(ctx, "a-1")
	require.NoError(t, err)
	_, err = first.Entity.Transition(domain.StatusRejected, nil, time.Now())
	require.NoError(t, err)
	_, err = repo.Update(ctx, first.Entity)
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAdoption(t, "a-2", "p-1", "u-1"))
	require.NoError(t, err, "rejected applications do not block a new one")

	_, err = first.Entity.Transition(domain.StatusPending, nil, time.Now())
	require.NoError(t, err)
	_, err = repo.Update(ctx, first.Entity)
	require.ErrorIs(t, err, ports.ErrDuplicateActive)
}

func TestRepository_QueriesAndCounts(t *testing.T) {
	repo := NewRepository(pgtest.SQLite(t, Migrate))
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	repo.WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	for _, a := range []*domain.Adoption{
		newAdoption(t, "a-1", "p-1", "u-1"),
		newAdoption(t, "a-2", "p-1", "u-2"),
		newAdoption(t, "a-3", "p-2", "u-1"),
	} {
		_, err := repo.Create(ctx, a)
		require.NoError(t, err)
	}
	approved, err := repo.Get(ctx, "a-2")
	require.NoError(t, err)
	_, err = approved.Entity.Transition(domain.StatusApproved, nil, time.Now())
	require.NoError(t, err)
	_, err = repo.Update(ctx, approved.Entity)
	require.NoError(t, err)

	active, err := repo.FindActive(ctx, "p-2", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "a-3", active.Entity.ID)
	_, err = repo.FindActive(ctx, "p-2", "u-2")
	require.ErrorIs(t, err, ports.ErrNotFound)

	has, err := repo.HasApproved(ctx, "p-1", "")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = repo.HasApproved(ctx, "p-1", "a-2")
	require.NoError(t, err)
	assert.False(t, has)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.StatusPending])
	assert.Equal(t, int64(1), counts[domain.StatusApproved])

	ids, err := repo.ApprovedPetIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p-1"}, ids)

	pending := domain.StatusPending
	items, total, err := repo.List(ctx, ports.ListFilter{Status: &pending}, pagination.Params{Page: 1, Limit: 1, SortField: "created_at", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	assert.Equal(t, "a-3", items[0].Entity.ID)

	mine, total, err := repo.List(ctx, ports.ListFilter{ApplicantID: "u-1"}, pagination.Params{SortField: "created_at", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, mine, 2)
	assert.Equal(t, "a-3", mine[0].Entity.ID)
}

func TestOutbox_ClaimDueAndSave(t *testing.T) {
	outbox := NewOutbox(pgtest.SQLite(t, Migrate))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	change := domain.StatusChanged{AdoptionID: "a-1", From: domain.StatusPending, To: domain.StatusApproved}
	due := domain.NewNotification("n-1", change, domain.Recipient{Email: "asha@example.com", Name: "Asha"}, "Bruno", now.Add(-time.Hour), time.Minute)
	later := domain.NewNotification("n-2", change, domain.Recipient{Email: "ravi@example.com"}, "Bruno", now, time.Hour)
	require.NoError(t, outbox.Add(ctx, due))
	require.NoError(t, outbox.Add(ctx, later))

	claimed, err := outbox.ClaimDue(ctx, now, 10, 2*time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "n-1", claimed[0].ID)
	assert.Equal(t, "Asha", claimed[0].Recipient.Name)

	again, err := outbox.ClaimDue(ctx, now, 10, 2*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, again, "claimed entries are leased")

	entry := claimed[0]
	entry.MarkDelivered(now)
	require.NoError(t, outbox.Save(ctx, entry))
	stored, err := outbox.Get(ctx, "n-1")
	require.NoError(t, err)
	assert.True(t, stored.Delivered())
	require.NotNil(t, stored.DeliveredAt)

	_, err = outbox.Get(ctx, "missing")
	require.ErrorIs(t, err, ports.ErrNotificationNotFound)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := pgtest.SQLite(t, petpostgres.Migrate, Migrate)
	ctx := context.Background()
	pets := petpostgres.NewRepository(db)
	pet, err := petdomain.NewPet("p-1", petdomain.Profile{
		Name: "Bruno", Category: petdomain.CategoryDog, Breed: "Indie", Age: 3,
		Gender: petdomain.GenderMale, Size: petdomain.SizeLarge, Description: "Loves fetch",
	})
	require.NoError(t, err)
	_, err = pets.Save(ctx, pet)
	require.NoError(t, err)

	tx := NewTransactionManager(db, sqlitePets)
	boom := errors.New("boom")
	err = tx.Execute(ctx, func(s ports.Stores) error {
		if _, err := s.Adoptions().Create(ctx, newAdoption(t, "a-1", "p-1", "u-1")); err != nil {
			return err
		}
		if err := s.Pets().SetAdopted(ctx, "p-1", true); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = NewRepository(db).Get(ctx, "a-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
	stored, err := pets.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.False(t, stored.Entity.IsAdopted)

	err = tx.Execute(ctx, func(s ports.Stores) error {
		_, err := s.Adoptions().Create(ctx, newAdoption(t, "a-1", "p-1", "u-1"))
		if err != nil {
			return err
		}
		return s.Pets().SetAdopted(ctx, "p-1", true)
	})
	require.NoError(t, err)
	stored, err = pets.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.True(t, stored.Entity.IsAdopted)
}
