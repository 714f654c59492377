package domain

import (
	"errors"
	"strings"
	"time"
)

// NotificationState tracks an outbox entry through delivery.
type NotificationState string

const (
	NotificationPending   NotificationState = "pending"
	NotificationDelivered NotificationState = "delivered"
	NotificationDead      NotificationState = "dead"
)

const (
	baseRetryDelay = 30 * time.Second
	maxRetryDelay  = time.Hour
)

var ErrNotificationDead = errors.New("notification exhausted its delivery attempts")

// Recipient is the applicant contact a notification is addressed to.
type Recipient struct {
	Email string
	Name  string
}

// Notification is an outbox entry: the intent to tell an applicant about a status change.
type Notification struct {
	ID             string
	AdoptionID     string
	Recipient      Recipient
	PetName        string
	PreviousStatus Status
	Status         Status
	AdminNotes     string
	State          NotificationState
	Attempts       int
	NextAttemptAt  time.Time
	LastError      string
	CreatedAt      time.Time
	DeliveredAt    *time.Time
}

// NewNotification builds a pending outbox entry for a status change. The first
// relay pickup is deferred by lease so the request path gets the first attempt.
func NewNotification(id string, change StatusChanged, to Recipient, petName string, now time.Time, lease time.Duration) *Notification {
	return &Notification{
		ID:             id,
		AdoptionID:     change.AdoptionID,
		Recipient:      Recipient{Email: strings.TrimSpace(to.Email), Name: strings.TrimSpace(to.Name)},
		PetName:        petName,
		PreviousStatus: change.From,
		Status:         change.To,
		AdminNotes:     change.AdminNotes,
		State:          NotificationPending,
		NextAttemptAt:  now.Add(lease),
		CreatedAt:      now,
	}
}

// Delivered reports whether the entry no longer needs work.
func (n *Notification) Delivered() bool {
	return n.State == NotificationDelivered
}

// MarkDelivered records a successful send.
func (n *Notification) MarkDelivered(now time.Time) {
	n.Attempts++
	n.State = NotificationDelivered
	n.LastError = ""
	n.DeliveredAt = &now
}

// MarkFailed records a failed send and schedules the next attempt with exponential backoff.
// After maxAttempts the entry is dead.
func (n *Notification) MarkFailed(cause error, now time.Time, maxAttempts int) {
	n.Attempts++
	if cause != nil {
		n.LastError = cause.Error()
	}
	if maxAttempts > 0 && n.Attempts >= maxAttempts {
		n.State = NotificationDead
		return
	}
	delay := baseRetryDelay << (n.Attempts - 1)
	if delay <= 0 || delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	n.NextAttemptAt = now.Add(delay)
}

// Clone returns a copy safe to hand across goroutines.
func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}
	cp := *n
	if n.DeliveredAt != nil {
		at := *n.DeliveredAt
		cp.DeliveredAt = &at
	}
	return &cp
}
