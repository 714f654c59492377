package pawhavenserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/http/mapper"
	storetypes "github.com/Apurer/pawhaven-api/internal/domains/store/application/types"
	storeports "github.com/Apurer/pawhaven-api/internal/domains/store/ports"
)

// OrderAPI wires HTTP transport with order placement and fulfilment.
type OrderAPI struct {
	service storeports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service storeports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /orders
// Places a cash-on-delivery order priced from the catalog
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var input storetypes.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	input.UserID = mustPrincipal(c).UserID
	order, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromOrder(order))
}

// Get /orders/my-orders
func (api *OrderAPI) ListMyOrders(c *gin.Context) {
	orders, err := api.service.ListMyOrders(c.Request.Context(), mustPrincipal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.OrderList{Orders: orderhttpmapper.FromOrders(orders)})
}

// Get /orders
// Without page or limit the full list is returned; otherwise a paginated envelope
func (api *OrderAPI) ListOrders(c *gin.Context) {
	_, hasPage := c.GetQuery("page")
	_, hasLimit := c.GetQuery("limit")
	input := storetypes.ListOrdersInput{Paginate: hasPage || hasLimit}
	var ok bool
	if input.Page, ok = intQuery(c, "page"); !ok {
		return
	}
	if input.Limit, ok = intQuery(c, "limit"); !ok {
		return
	}
	page, err := api.service.ListOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromPage(page))
}

// Get /orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	principal := mustPrincipal(c)
	order, err := api.service.GetOrder(c.Request.Context(), storetypes.GetOrderInput{
		ID:    c.Param("id"),
		Actor: storetypes.Actor{UserID: principal.UserID, Admin: principal.Admin()},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}

// Patch /orders/:id/status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload orderhttpmapper.StatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	order, err := api.service.UpdateOrderStatus(c.Request.Context(), storetypes.UpdateOrderStatusInput{
		ID:     c.Param("id"),
		Status: payload.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromOrder(order))
}
