package pawhavenserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/http/mapper"
	storetypes "github.com/Apurer/pawhaven-api/internal/domains/store/application/types"
	storeports "github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

// PaymentAPI exposes the online payment flow.
type PaymentAPI struct {
	service storeports.Service
}

func NewPaymentAPI(service storeports.Service) PaymentAPI {
	return PaymentAPI{service: service}
}

// Post /payments/create-payment
// Passes the gateway order object through to the client checkout
func (api *PaymentAPI) CreatePayment(c *gin.Context) {
	var input storetypes.PaymentOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	order, err := api.service.CreatePaymentOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Post /payments/verify-payment
// Checks the gateway signature and records the paid order
func (api *PaymentAPI) VerifyPayment(c *gin.Context) {
	var input storetypes.VerifyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	input.UserID = mustPrincipal(c).UserID
	result, err := api.service.VerifyPayment(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromVerifyResult(result))
}
