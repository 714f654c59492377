package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// ApplicationSubmitted is raised when an applicant files a new application.
type ApplicationSubmitted struct {
	BaseEvent
	AdoptionID  string
	PetID       string
	ApplicantID string
}

func (e ApplicationSubmitted) EventName() string {
	return "adoptions.application.submitted"
}

// StatusChanged is raised when an admin moves an application to another status.
type StatusChanged struct {
	BaseEvent
	AdoptionID  string
	PetID       string
	ApplicantID string
	From        Status
	To          Status
	AdminNotes  string
}

func (e StatusChanged) EventName() string {
	return "adoptions.application.status_changed"
}

// Changed reports whether the transition moved to a different status.
func (e StatusChanged) Changed() bool {
	return e.From != e.To
}

// AggregateWithEvents is implemented by aggregates that track domain events.
type AggregateWithEvents interface {
	Events() []Event
	ClearEvents()
}
