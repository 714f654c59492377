package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

var (
	// ErrInvalidInput signals a client-fixable problem with the request. Field details,
	// when present, are carried by a wrapped validation.Errors.
	ErrInvalidInput = errors.New("invalid adoption input")
	// ErrConflict signals the request clashes with the current state.
	ErrConflict = errors.New("adoption conflict")
	// ErrForbidden signals the caller may not see the adoption.
	ErrForbidden = errors.New("adoption access forbidden")

	ErrPetAlreadyAdopted    = errors.New("pet is already adopted")
	ErrDuplicateApplication = errors.New("you already have an active application for this pet")
	ErrAnotherApproved      = errors.New("another application for this pet is already approved")
)

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{field: message})
}

func conflict(err error) error {
	return fmt.Errorf("%w: %w", ErrConflict, err)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict), errors.Is(err, ErrForbidden):
		return err
	case errors.As(err, &fieldErrs):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return invalid("status", domain.ErrInvalidStatus.Error())
	case errors.Is(err, domain.ErrEmptyPet):
		return invalid("pet", "is required")
	case errors.Is(err, domain.ErrEmptyDocument):
		return invalid("idProofFile", "is required")
	case errors.Is(err, domain.ErrEmptyID), errors.Is(err, domain.ErrEmptyApplicant):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, ports.ErrDocumentTooLarge), errors.Is(err, ports.ErrDocumentUnsupported):
		return invalid("idProofFile", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return conflict(err)
	case errors.Is(err, ports.ErrDuplicateActive):
		return conflict(ErrDuplicateApplication)
	}
	return err
}
