package pawhavenserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	adoptionhttpmapper "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/http/mapper"
	adoptiontypes "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application/types"
	adoptionsports "github.com/Apurer/pawhaven-api/internal/domains/adoptions/ports"
)

// AdoptionAPI wires HTTP transport with the adoption lifecycle.
type AdoptionAPI struct {
	service adoptionsports.Service
}

// NewAdoptionAPI creates an AdoptionAPI backed by the provided service.
func NewAdoptionAPI(service adoptionsports.Service) AdoptionAPI {
	return AdoptionAPI{service: service}
}

// Post /adoptions
// Submits an application as multipart form data with an idProofFile attachment
func (api *AdoptionAPI) SubmitAdoption(c *gin.Context) {
	var form adoptionhttpmapper.SubmitForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		uploadRejected(c, err)
		return
	}
	input, err := adoptionhttpmapper.ToSubmitInput(form)
	if err != nil {
		respondProblem(c, invalidInput(err))
		return
	}
	input.ApplicantID = mustPrincipal(c).UserID

	header, err := c.FormFile("idProofFile")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		uploadRejected(c, err)
		return
	default:
		file, err := header.Open()
		if err != nil {
			badRequest(c, err)
			return
		}
		defer file.Close()
		input.Document = &adoptiontypes.DocumentUpload{Filename: header.Filename, Content: file}
	}

	created, err := api.service.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adoptionhttpmapper.FromDetails(created))
}

// uploadRejected answers a multipart read failure, 413 when the body cap was hit.
func uploadRejected(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondProblem(c, bodyTooLarge(tooLarge.Limit))
		return
	}
	badRequest(c, err)
}

// Get /adoptions/admin
func (api *AdoptionAPI) ListAdoptions(c *gin.Context) {
	input := adoptiontypes.ListInput{
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	var ok bool
	if input.Page, ok = intQuery(c, "page"); !ok {
		return
	}
	if input.Limit, ok = intQuery(c, "limit"); !ok {
		return
	}
	page, err := api.service.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromPage(page))
}

// Get /adoptions/admin/stats
func (api *AdoptionAPI) AdoptionStats(c *gin.Context) {
	stats, err := api.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromStats(stats))
}

// Get /adoptions/user
func (api *AdoptionAPI) ListMyAdoptions(c *gin.Context) {
	items, err := api.service.ListMine(c.Request.Context(), mustPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDetailsList(items))
}

// Get /adoptions/:id
func (api *AdoptionAPI) GetAdoption(c *gin.Context) {
	principal := mustPrincipal(c)
	input := adoptiontypes.GetInput{
		ID:    c.Param("id"),
		Actor: adoptiontypes.Actor{UserID: principal.UserID, Admin: principal.Admin()},
	}
	details, err := api.service.Get(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromDetails(details))
}

// Patch /adoptions/:id
// Moves an application through the review workflow and reports whether the applicant was notified
func (api *AdoptionAPI) UpdateAdoptionStatus(c *gin.Context) {
	var payload adoptionhttpmapper.StatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	result, err := api.service.UpdateStatus(c.Request.Context(), adoptiontypes.UpdateStatusInput{
		ID:         c.Param("id"),
		Status:     payload.Status,
		AdminNotes: payload.AdminNotes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, adoptionhttpmapper.FromStatusUpdate(result))
}

// Delete /adoptions/:id
func (api *AdoptionAPI) DeleteAdoption(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
