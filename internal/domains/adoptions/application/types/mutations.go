package types

import "io"

// Actor is the authenticated caller.
type Actor struct {
	UserID string
	Admin  bool
}

type PersonalDetailsInput struct {
	Phone       string `json:"phone" validate:"required,indian_mobile"`
	IDProofType string `json:"idProofType" validate:"required,oneof=aadhar pan"`
}

type LivingSituationInput struct {
	HomeType         string `json:"homeType" validate:"required,oneof=House Apartment Condo Other"`
	HasYard          bool   `json:"hasYard"`
	OtherPets        bool   `json:"otherPets"`
	OtherPetsDetails string `json:"otherPetsDetails" validate:"required_if=OtherPets true"`
}

type ExperienceInput struct {
	HasExperience     bool   `json:"hasExperience"`
	ExperienceDetails string `json:"experienceDetails" validate:"required_if=HasExperience true"`
}

// DocumentUpload is the identity document received with the form.
type DocumentUpload struct {
	Filename string
	Content  io.Reader
}

// SubmitInput is an adoption application as received from the applicant.
type SubmitInput struct {
	ApplicantID       string                `json:"-" validate:"-"`
	PetID             string                `json:"pet" validate:"required"`
	PersonalDetails   *PersonalDetailsInput `json:"personalDetails" validate:"required"`
	LivingSituation   *LivingSituationInput `json:"livingSituation" validate:"required"`
	Experience        *ExperienceInput      `json:"experience" validate:"required"`
	ReasonForAdoption string                `json:"reasonForAdoption" validate:"required,min=20"`
	AdditionalNotes   string                `json:"additionalNotes" validate:"max=2000"`
	Document          *DocumentUpload       `json:"-" validate:"-"`
}

// GetInput loads one adoption on behalf of actor.
type GetInput struct {
	ID    string
	Actor Actor
}

// ListInput carries the admin listing query.
type ListInput struct {
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// UpdateStatusInput is an admin transition request. A nil AdminNotes keeps the stored notes.
type UpdateStatusInput struct {
	ID         string
	Status     string
	AdminNotes *string
}
