package pawhavenserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	adoptionsapp "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application"
	adoptionsports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
	petsapp "github.com/Apurer/pawhaven-api/internal/domains/pets/application"
	petsports "github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
	storeapp "github.com/Apurer/pawhaven-api/internal/domains/store/application"
	storeports "github.com/Apurer/pawhaven-api/internal/domains/store/ports"
	usersapp "github.com/Apurer/pawhaven-api/internal/domains/users/application"
	usersports "github.com/Apurer/pawhaven-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/pawhaven-api/internal/shared/errors"
	"github.com/Apurer/pawhaven-api/internal/shared/validation"
)

var responder = apierrors.NewChainedResponder("",
	mapPetError,
	mapAdoptionError,
	mapOrderError,
	mapUserError,
)

// respondProblem writes an RFC 7807 body.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError runs err through the context mappers and falls back to a generic 500.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func badRequest(c *gin.Context, err error) {
	respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

// invalidInput renders field errors when the chain carries them, otherwise the bare message.
func invalidInput(err error) apierrors.ProblemDetail {
	var fields validation.Errors
	if errors.As(err, &fields) && len(fields) > 0 {
		return apierrors.NewValidationProblem(fields).WithDetail("request validation failed")
	}
	return apierrors.ErrValidation.WithDetail(err.Error())
}

func mapPetError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, petsapp.ErrInvalidInput):
		return invalidInput(err), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAdoptionError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, adoptionsapp.ErrInvalidInput):
		return invalidInput(err), true
	case errors.Is(err, adoptionsapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("you may only view your own applications"), true
	case errors.Is(err, adoptionsapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(conflictDetail(err)), true
	case errors.Is(err, adoptionsports.ErrNotFound), errors.Is(err, adoptionsports.ErrPetNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

// conflictDetail drops the category prefix so clients see the specific reason.
func conflictDetail(err error) string {
	for _, reason := range []error{
		adoptionsapp.ErrPetAlreadyAdopted,
		adoptionsapp.ErrDuplicateApplication,
		adoptionsapp.ErrAnotherApproved,
	} {
		if errors.Is(err, reason) {
			return reason.Error()
		}
	}
	return err.Error()
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, storeapp.ErrSecurity):
		return apierrors.ErrSecurity.WithDetail("payment verification failed"), true
	case errors.Is(err, storeapp.ErrOrderNumberConflict):
		return apierrors.NewRetryableConflict("order number collided, retry the request"), true
	case errors.Is(err, storeapp.ErrInvalidInput):
		return invalidInput(err), true
	case errors.Is(err, storeapp.ErrForbidden):
		return apierrors.ErrForbidden.WithDetail("you may only view your own orders"), true
	case errors.Is(err, storeapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, storeapp.ErrUpstream):
		return apierrors.ErrUpstream.WithDetail("payment gateway unavailable"), true
	case errors.Is(err, storeports.ErrNotFound), errors.Is(err, storeports.ErrProductNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUserError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, usersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail("profile not found"), true
	case errors.Is(err, usersapp.ErrInvalidInput):
		return invalidInput(err), true
	}
	return apierrors.ProblemDetail{}, false
}
