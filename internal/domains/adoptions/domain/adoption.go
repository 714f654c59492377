package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is the closed set of application states.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IDProofType names the identity document kinds accepted with an application.
type IDProofType string

const (
	IDProofAadhar IDProofType = "aadhar"
	IDProofPAN    IDProofType = "pan"
)

// HomeType describes where the applicant lives.
type HomeType string

const (
	HomeHouse     HomeType = "House"
	HomeApartment HomeType = "Apartment"
	HomeCondo     HomeType = "Condo"
	HomeOther     HomeType = "Other"
)

var (
	ErrEmptyID           = errors.New("adoption id is required")
	ErrEmptyPet          = errors.New("adoption pet is required")
	ErrEmptyApplicant    = errors.New("adoption applicant is required")
	ErrEmptyDocument     = errors.New("identity document is required")
	ErrInvalidStatus     = errors.New("adoption status must be one of Pending, Approved, Rejected")
	ErrInvalidTransition = errors.New("adoption status transition is not allowed")
)

// transitions lists, per state, the states an admin may move to. Same-state moves are always allowed.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusRejected},
	StatusRejected: {StatusPending},
}

// ParseStatus converts raw input into a Status.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.TrimSpace(raw)); s {
	case StatusPending, StatusApproved, StatusRejected:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}

// CanTransitionTo reports whether next is reachable from s.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Active reports whether the status counts towards the duplicate-application rule.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusApproved
}

type PersonalDetails struct {
	Phone       string
	IDProofType IDProofType
	IDProofFile string
}

type LivingSituation struct {
	HomeType         HomeType
	HasYard          bool
	OtherPets        bool
	OtherPetsDetails string
}

type Experience struct {
	HasExperience     bool
	ExperienceDetails string
}

// Application is what an applicant submits.
type Application struct {
	PetID             string
	ApplicantID       string
	PersonalDetails   PersonalDetails
	LivingSituation   LivingSituation
	Experience        Experience
	ReasonForAdoption string
	AdditionalNotes   string
}

// Adoption is an application and its review state.
type Adoption struct {
	ID                string
	PetID             string
	ApplicantID       string
	Status            Status
	PersonalDetails   PersonalDetails
	LivingSituation   LivingSituation
	Experience        Experience
	ReasonForAdoption string
	AdditionalNotes   string
	AdminNotes        string

	events []Event
}

// NewAdoption creates a Pending adoption from a submitted application.
func NewAdoption(id string, app Application, now time.Time) (*Adoption, error) {
	a := &Adoption{
		ID:                strings.TrimSpace(id),
		PetID:             strings.TrimSpace(app.PetID),
		ApplicantID:       strings.TrimSpace(app.ApplicantID),
		Status:            StatusPending,
		PersonalDetails:   app.PersonalDetails,
		LivingSituation:   app.LivingSituation,
		Experience:        app.Experience,
		ReasonForAdoption: strings.TrimSpace(app.ReasonForAdoption),
		AdditionalNotes:   strings.TrimSpace(app.AdditionalNotes),
	}
	a.LivingSituation.OtherPetsDetails = strings.TrimSpace(a.LivingSituation.OtherPetsDetails)
	a.Experience.ExperienceDetails = strings.TrimSpace(a.Experience.ExperienceDetails)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	a.record(ApplicationSubmitted{
		BaseEvent:   BaseEvent{Timestamp: now},
		AdoptionID:  a.ID,
		PetID:       a.PetID,
		ApplicantID: a.ApplicantID,
	})
	return a, nil
}

// Validate checks the invariants the store relies on. Field-level form rules live in the application layer.
func (a *Adoption) Validate() error {
	switch {
	case a.ID == "":
		return ErrEmptyID
	case a.PetID == "":
		return ErrEmptyPet
	case a.ApplicantID == "":
		return ErrEmptyApplicant
	case strings.TrimSpace(a.PersonalDetails.IDProofFile) == "":
		return ErrEmptyDocument
	}
	if _, err := ParseStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}

// Transition moves the adoption to next. adminNotes replaces the stored notes when non-nil.
// The returned event reports the previous status and whether it changed.
func (a *Adoption) Transition(next Status, adminNotes *string, now time.Time) (StatusChanged, error) {
	if _, err := ParseStatus(string(next)); err != nil {
		return StatusChanged{}, err
	}
	if !a.Status.CanTransitionTo(next) {
		return StatusChanged{}, ErrInvalidTransition
	}
	change := StatusChanged{
		BaseEvent:   BaseEvent{Timestamp: now},
		AdoptionID:  a.ID,
		PetID:       a.PetID,
		ApplicantID: a.ApplicantID,
		From:        a.Status,
		To:          next,
	}
	a.Status = next
	if adminNotes != nil {
		a.AdminNotes = strings.TrimSpace(*adminNotes)
	}
	change.AdminNotes = a.AdminNotes
	if change.Changed() {
		a.record(change)
	}
	return change, nil
}

// Owner reports whether userID submitted the application.
func (a *Adoption) Owner(userID string) bool {
	return userID != "" && a.ApplicantID == userID
}

// Events returns the events recorded since the last ClearEvents.
func (a *Adoption) Events() []Event {
	return append([]Event(nil), a.events...)
}

// ClearEvents drops recorded events.
func (a *Adoption) ClearEvents() {
	a.events = nil
}

func (a *Adoption) record(e Event) {
	a.events = append(a.events, e)
}

// Clone returns a deep copy without recorded events.
func (a *Adoption) Clone() *Adoption {
	if a == nil {
		return nil
	}
	cp := *a
	cp.events = nil
	return &cp
}

var _ AggregateWithEvents = (*Adoption)(nil)
