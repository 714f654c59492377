package mapper

import (
	"encoding/json"
	"strings"
	"time"

	adoptiontypes "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/pagination"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

// SubmitForm mirrors the multipart fields of an application. The nested sections arrive as JSON strings.
type SubmitForm struct {
	Pet               string `form:"pet"`
	PersonalDetails   string `form:"personalDetails"`
	LivingSituation   string `form:"livingSituation"`
	Experience        string `form:"experience"`
	ReasonForAdoption string `form:"reasonForAdoption"`
	AdditionalNotes   string `form:"additionalNotes"`
}

// ToSubmitInput decodes the nested sections. Malformed JSON is reported per field.
func ToSubmitInput(form SubmitForm) (adoptiontypes.SubmitInput, error) {
	input := adoptiontypes.SubmitInput{
		PetID:             form.Pet,
		ReasonForAdoption: form.ReasonForAdoption,
		AdditionalNotes:   form.AdditionalNotes,
	}
	problems := validation.Errors{}
	decodeSection(form.PersonalDetails, "personalDetails", &input.PersonalDetails, problems)
	decodeSection(form.LivingSituation, "livingSituation", &input.LivingSituation, problems)
	decodeSection(form.Experience, "experience", &input.Experience, problems)
	if len(problems) > 0 {
		return input, problems
	}
	return input, nil
}

func decodeSection[T any](raw, field string, dst **T, problems validation.Errors) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	var section T
	if err := json.Unmarshal([]byte(raw), &section); err != nil {
		problems[field] = "must be a valid JSON object"
		return
	}
	*dst = &section
}

// StatusPayload is the admin transition body.
type StatusPayload struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

type PersonalDetails struct {
	Phone       string `json:"phone"`
	IDProofType string `json:"idProofType"`
	IDProofFile string `json:"idProofFile"`
}

type LivingSituation struct {
	HomeType         string `json:"homeType"`
	HasYard          bool   `json:"hasYard"`
	OtherPets        bool   `json:"otherPets"`
	OtherPetsDetails string `json:"otherPetsDetails,omitempty"`
}

type Experience struct {
	HasExperience     bool   `json:"hasExperience"`
	ExperienceDetails string `json:"experienceDetails,omitempty"`
}

// Pet is the populated pet reference. It is null once the pet has been removed.
type Pet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Breed     string `json:"breed"`
	Image     string `json:"image,omitempty"`
	IsAdopted bool   `json:"isAdopted"`
}

// Adoption is the HTTP representation of an application.
type Adoption struct {
	ID                string          `json:"id"`
	Pet               *Pet            `json:"pet"`
	PetID             string          `json:"petId"`
	Applicant         string          `json:"applicant"`
	Status            string          `json:"status"`
	PersonalDetails   PersonalDetails `json:"personalDetails"`
	LivingSituation   LivingSituation `json:"livingSituation"`
	Experience        Experience      `json:"experience"`
	ReasonForAdoption string          `json:"reasonForAdoption"`
	AdditionalNotes   string          `json:"additionalNotes,omitempty"`
	AdminNotes        string          `json:"adminNotes,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// AdoptionList is the admin listing envelope.
type AdoptionList struct {
	Adoptions  []Adoption      `json:"adoptions"`
	Pagination pagination.Meta `json:"pagination"`
}

// StatusUpdate is the response to an admin transition.
type StatusUpdate struct {
	Message   string   `json:"message"`
	Adoption  Adoption `json:"adoption"`
	EmailSent bool     `json:"emailSent"`
}

// Stats is the dashboard payload.
type Stats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"byStatus"`
	RecentPending  []Adoption       `json:"recentPending"`
	RecentApproved []Adoption       `json:"recentApproved"`
}

// FromDetails maps an adoption with its populated pet.
func FromDetails(details *adoptiontypes.AdoptionDetails) Adoption {
	if details == nil || details.Adoption == nil || details.Adoption.Entity == nil {
		return Adoption{}
	}
	a := details.Adoption.Entity
	out := Adoption{
		ID:        a.ID,
		PetID:     a.PetID,
		Applicant: a.ApplicantID,
		Status:    string(a.Status),
		PersonalDetails: PersonalDetails{
			Phone:       a.PersonalDetails.Phone,
			IDProofType: string(a.PersonalDetails.IDProofType),
			IDProofFile: a.PersonalDetails.IDProofFile,
		},
		LivingSituation: LivingSituation{
			HomeType:         string(a.LivingSituation.HomeType),
			HasYard:          a.LivingSituation.HasYard,
			OtherPets:        a.LivingSituation.OtherPets,
			OtherPetsDetails: a.LivingSituation.OtherPetsDetails,
		},
		Experience: Experience{
			HasExperience:     a.Experience.HasExperience,
			ExperienceDetails: a.Experience.ExperienceDetails,
		},
		ReasonForAdoption: a.ReasonForAdoption,
		AdditionalNotes:   a.AdditionalNotes,
		AdminNotes:        a.AdminNotes,
		CreatedAt:         details.Adoption.Metadata.CreatedAt,
		UpdatedAt:         details.Adoption.Metadata.UpdatedAt,
	}
	if p := details.Pet; p != nil {
		out.Pet = &Pet{ID: p.ID, Name: p.Name, Category: p.Category, Breed: p.Breed, Image: p.Image, IsAdopted: p.IsAdopted}
	}
	return out
}

// FromDetailsList maps a slice, never returning nil.
func FromDetailsList(items []*adoptiontypes.AdoptionDetails) []Adoption {
	out := make([]Adoption, 0, len(items))
	for _, item := range items {
		out = append(out, FromDetails(item))
	}
	return out
}

func FromPage(page *adoptiontypes.AdoptionPage) AdoptionList {
	return AdoptionList{Adoptions: FromDetailsList(page.Items), Pagination: page.Meta}
}

func FromStatusUpdate(result *adoptiontypes.StatusUpdateResult) StatusUpdate {
	msg := "Adoption status unchanged"
	if result.Changed {
		msg = "Adoption status updated to " + string(result.Adoption.Adoption.Entity.Status)
	}
	return StatusUpdate{Message: msg, Adoption: FromDetails(result.Adoption), EmailSent: result.EmailSent}
}

func FromStats(stats *adoptiontypes.Stats) Stats {
	byStatus := map[string]int64{
		string(domain.StatusPending):  0,
		string(domain.StatusApproved): 0,
		string(domain.StatusRejected): 0,
	}
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return Stats{
		Total:          stats.Total,
		ByStatus:       byStatus,
		RecentPending:  FromDetailsList(stats.RecentPending),
		RecentApproved: FromDetailsList(stats.RecentApproved),
	}
}
