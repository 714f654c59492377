package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdoption(t *testing.T) *Adoption {
	t.Helper()
	a, err := NewAdoption("a-1", Application{
		PetID:             "p-1",
		ApplicantID:       "u-1",
		PersonalDetails:   PersonalDetails{Phone: "9876543210", IDProofType: IDProofPAN, IDProofFile: "id-proofs/a.pdf"},
		LivingSituation:   LivingSituation{HomeType: HomeHouse},
		ReasonForAdoption: "We have a big garden and time",
	}, time.Now())
	require.NoError(t, err)
	return a
}

func TestNewAdoption_StartsPending(t *testing.T) {
	a := newTestAdoption(t)
	assert.Equal(t, StatusPending, a.Status)
	require.Len(t, a.Events(), 1)
	assert.Equal(t, "adoptions.application.submitted", a.Events()[0].EventName())
}

func TestNewAdoption_RequiresDocument(t *testing.T) {
	_, err := NewAdoption("a-1", Application{PetID: "p-1", ApplicantID: "u-1"}, time.Now())
	require.ErrorIs(t, err, ErrEmptyDocument)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusApproved, StatusRejected, true},
		{StatusRejected, StatusPending, true},
		{StatusRejected, StatusRejected, true},
		{StatusApproved, StatusApproved, true},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransition_RecordsChange(t *testing.T) {
	a := newTestAdoption(t)
	a.ClearEvents()
	notes := "  welcome home  "

	change, err := a.Transition(StatusApproved, &notes, time.Now())
	require.NoError(t, err)
	assert.True(t, change.Changed())
	assert.Equal(t, StatusPending, change.From)
	assert.Equal(t, "welcome home", a.AdminNotes)
	require.Len(t, a.Events(), 1)

	change, err = a.Transition(StatusApproved, nil, time.Now())
	require.NoError(t, err)
	assert.False(t, change.Changed())
	assert.Equal(t, "welcome home", a.AdminNotes)
	assert.Len(t, a.Events(), 1)
}

func TestTransition_RejectsClosedPairs(t *testing.T) {
	a := newTestAdoption(t)
	_, err := a.Transition(StatusRejected, nil, time.Now())
	require.NoError(t, err)

	_, err = a.Transition(StatusApproved, nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = a.Transition("Archived", nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestNotification_BackoffThenDead(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	n := NewNotification("n-1", StatusChanged{AdoptionID: "a-1", From: StatusPending, To: StatusApproved}, Recipient{Email: "a@example.com"}, "Bruno", now, time.Minute)
	assert.Equal(t, now.Add(time.Minute), n.NextAttemptAt)

	n.MarkFailed(assert.AnError, now, 3)
	assert.Equal(t, NotificationPending, n.State)
	assert.Equal(t, now.Add(30*time.Second), n.NextAttemptAt)

	n.MarkFailed(assert.AnError, now, 3)
	assert.Equal(t, now.Add(time.Minute), n.NextAttemptAt)

	n.MarkFailed(assert.AnError, now, 3)
	assert.Equal(t, NotificationDead, n.State)
	assert.Equal(t, 3, n.Attempts)
	assert.Equal(t, assert.AnError.Error(), n.LastError)
}

func TestNotification_MarkDelivered(t *testing.T) {
	now := time.Now()
	n := NewNotification("n-1", StatusChanged{To: StatusRejected}, Recipient{}, "", now, 0)
	n.MarkDelivered(now)
	assert.True(t, n.Delivered())
	require.NotNil(t, n.DeliveredAt)
}
