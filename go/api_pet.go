package pawhavenserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pethttpmapper "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/http/mapper"
	petstypes "github.com/Apurer/pawhaven-api/internal/domains/pets/application/types"
	petsports "github.com/Apurer/pawhaven-api/internal/domains/pets/ports"
)

// PetAPI wires HTTP transport with the pets catalog service.
type PetAPI struct {
	service petsports.Service
}

// NewPetAPI creates a PetAPI backed by the provided service.
func NewPetAPI(service petsports.Service) PetAPI {
	return PetAPI{service: service}
}

// Get /pets
// Lists pets with optional category and adoption filters
func (api *PetAPI) ListPets(c *gin.Context) {
	input := petstypes.ListPetsInput{
		Category:  c.Query("category"),
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
	if raw, present := c.GetQuery("adopted"); present {
		adopted, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, fmt.Errorf("adopted must be true or false"))
			return
		}
		input.Adopted = &adopted
	}
	page, err := api.service.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromPage(page))
}

// Get /pets/:id
func (api *PetAPI) GetPet(c *gin.Context) {
	pet, err := api.service.GetByID(c.Request.Context(), petstypes.PetIdentifier{ID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(pet))
}

// Post /pets
// Adds a pet to the catalog
func (api *PetAPI) AddPet(c *gin.Context) {
	var payload pethttpmapper.PetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	saved, err := api.service.AddPet(c.Request.Context(), petstypes.AddPetInput{Profile: pethttpmapper.ToProfile(payload)})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pethttpmapper.FromProjection(saved))
}

// Put /pets/:id
// Replaces the editable profile; isAdopted is owned by the adoption lifecycle
func (api *PetAPI) UpdatePet(c *gin.Context) {
	var payload pethttpmapper.PetPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	input := petstypes.UpdatePetInput{ID: c.Param("id"), Profile: pethttpmapper.ToProfile(payload)}
	updated, err := api.service.UpdatePet(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromProjection(updated))
}

// Delete /pets/:id
func (api *PetAPI) DeletePet(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), petstypes.PetIdentifier{ID: c.Param("id")}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// intQuery parses an optional integer query parameter, answering 400 when malformed.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, fmt.Errorf("%s must be an integer", name))
		return 0, false
	}
	return value, true
}
