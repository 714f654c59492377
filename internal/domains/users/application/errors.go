package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/pawhaven-api/internal/domains/users/domain"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid user input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	switch {
	case errors.As(err, &fieldErrs):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrEmptyName):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"name": "is required"})
	case errors.Is(err, domain.ErrInvalidEmail):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"email": err.Error()})
	case errors.Is(err, domain.ErrInvalidPhone):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{"phone": err.Error()})
	case errors.Is(err, domain.ErrEmptyID), errors.Is(err, domain.ErrInvalidRole):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
