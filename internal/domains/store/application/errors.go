package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	"github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	ErrForbidden    = errors.New("order access forbidden")
	ErrConflict     = errors.New("order conflict")
	// ErrSecurity is returned when a payment signature does not verify. It never carries the expected value.
	ErrSecurity = errors.New("transaction not legit")
	// ErrUpstream wraps payment gateway failures.
	ErrUpstream = errors.New("payment gateway unavailable")
	// ErrOrderNumberConflict is retryable: another order took the same number.
	ErrOrderNumberConflict = errors.New("order number collision, please retry")
)

func invalid(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Errors{field: message})
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrSecurity), errors.Is(err, ErrUpstream),
		errors.Is(err, ErrForbidden), errors.Is(err, ErrConflict), errors.Is(err, ErrOrderNumberConflict):
		return err
	case errors.As(err, &fieldErrs):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return invalid("status", domain.ErrInvalidStatus.Error())
	case errors.Is(err, domain.ErrInvalidPaymentMethod):
		return invalid("paymentMethod", domain.ErrInvalidPaymentMethod.Error())
	case errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrEmptyProduct),
		errors.Is(err, domain.ErrMissingShipping),
		errors.Is(err, domain.ErrEmptyUser),
		errors.Is(err, domain.ErrMissingPayment):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, ports.ErrNumberTaken), errors.Is(err, domain.ErrSequenceExhausted):
		return fmt.Errorf("%w: %w", ErrOrderNumberConflict, err)
	}
	return err
}
