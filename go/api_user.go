package pawhavenserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/http/mapper"
	usersports "github.com/Apurer/pawhaven-api/internal/domains/users/ports"
)

// UserAPI serves the caller's own profile.
type UserAPI struct {
	service usersports.Service
}

// NewUserAPI creates a UserAPI backed by the provided service.
func NewUserAPI(service usersports.Service) UserAPI {
	return UserAPI{service: service}
}

// Get /users/me
func (api *UserAPI) GetMyProfile(c *gin.Context) {
	user, err := api.service.GetProfile(c.Request.Context(), mustPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromProjection(user))
}

// Put /users/me
// Creates or updates the caller's profile; the role always follows the token
func (api *UserAPI) UpsertMyProfile(c *gin.Context) {
	var payload userhttpmapper.ProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	principal := mustPrincipal(c)
	result, err := api.service.UpsertProfile(c.Request.Context(), userhttpmapper.ToUpsertInput(payload, principal.UserID, principal.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, userhttpmapper.FromProjection(result.User))
}
