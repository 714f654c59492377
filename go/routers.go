package pawhavenserver

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

// access is the authorization level a route requires.
type access int

const (
	public access = iota
	authenticated
	admin
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	access      access
	rateLimited bool
	upload      bool
}

// ApiHandleFunctions groups the handlers of every API.
type ApiHandleFunctions struct {
	PetAPI      PetAPI
	AdoptionAPI AdoptionAPI
	OrderAPI    OrderAPI
	PaymentAPI  PaymentAPI
	UserAPI     UserAPI
	HealthAPI   HealthAPI
}

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	// ServiceName enables otelgin tracing when set.
	ServiceName string
	Verifier    TokenVerifier
	// PaymentRate and PaymentBurst bound payment calls per caller. A zero rate disables limiting.
	PaymentRate  rate.Limit
	PaymentBurst int
	// MaxMultipartMemory caps in-memory multipart buffering; defaults to 8 MiB.
	MaxMultipartMemory int64
	// MaxUploadBytes caps the body of upload routes; defaults to DefaultMaxUploadBytes.
	MaxUploadBytes int64
}

// DefaultMaxUploadBytes leaves room for the form fields around a 5 MB document.
const DefaultMaxUploadBytes int64 = 5<<20 + 512<<10

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	router.Use(gin.Recovery())
	if opts.ServiceName != "" {
		router.Use(otelgin.Middleware(opts.ServiceName))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	if opts.MaxMultipartMemory > 0 {
		router.MaxMultipartMemory = opts.MaxMultipartMemory
	}
	router.NoRoute(func(c *gin.Context) {
		respondProblem(c, notFoundRoute)
	})

	var limiter *RateLimiter
	if opts.PaymentRate > 0 {
		limiter = NewRateLimiter(opts.PaymentRate, opts.PaymentBurst)
	}
	authn := Authenticate(opts.Verifier)
	uploadLimit := opts.MaxUploadBytes
	if uploadLimit <= 0 {
		uploadLimit = DefaultMaxUploadBytes
	}
	limitUpload := LimitBody(uploadLimit)

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := make([]gin.HandlerFunc, 0, 5)
		if route.upload {
			chain = append(chain, limitUpload)
		}
		switch route.access {
		case authenticated:
			chain = append(chain, authn)
		case admin:
			chain = append(chain, authn, RequireAdmin())
		}
		if route.rateLimited && limiter != nil {
			chain = append(chain, limiter.Middleware())
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}

	return router
}

// DefaultHandleFunc answers routes whose handler is not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{Name: "Healthz", Method: http.MethodGet, Pattern: "/healthz", HandlerFunc: handleFunctions.HealthAPI.Healthz},
		{Name: "Readyz", Method: http.MethodGet, Pattern: "/readyz", HandlerFunc: handleFunctions.HealthAPI.Readyz},

		{Name: "ListPets", Method: http.MethodGet, Pattern: "/pets", HandlerFunc: handleFunctions.PetAPI.ListPets},
		{Name: "GetPet", Method: http.MethodGet, Pattern: "/pets/:id", HandlerFunc: handleFunctions.PetAPI.GetPet},
		{Name: "AddPet", Method: http.MethodPost, Pattern: "/pets", HandlerFunc: handleFunctions.PetAPI.AddPet, access: admin},
		{Name: "UpdatePet", Method: http.MethodPut, Pattern: "/pets/:id", HandlerFunc: handleFunctions.PetAPI.UpdatePet, access: admin},
		{Name: "DeletePet", Method: http.MethodDelete, Pattern: "/pets/:id", HandlerFunc: handleFunctions.PetAPI.DeletePet, access: admin},

		{Name: "SubmitAdoption", Method: http.MethodPost, Pattern: "/adoptions", HandlerFunc: handleFunctions.AdoptionAPI.SubmitAdoption, access: authenticated, upload: true},
		{Name: "ListAdoptions", Method: http.MethodGet, Pattern: "/adoptions/admin", HandlerFunc: handleFunctions.AdoptionAPI.ListAdoptions, access: admin},
		{Name: "AdoptionStats", Method: http.MethodGet, Pattern: "/adoptions/admin/stats", HandlerFunc: handleFunctions.AdoptionAPI.AdoptionStats, access: admin},
		{Name: "ListMyAdoptions", Method: http.MethodGet, Pattern: "/adoptions/user", HandlerFunc: handleFunctions.AdoptionAPI.ListMyAdoptions, access: authenticated},
		{Name: "GetAdoption", Method: http.MethodGet, Pattern: "/adoptions/:id", HandlerFunc: handleFunctions.AdoptionAPI.GetAdoption, access: authenticated},
		{Name: "UpdateAdoptionStatus", Method: http.MethodPatch, Pattern: "/adoptions/:id", HandlerFunc: handleFunctions.AdoptionAPI.UpdateAdoptionStatus, access: admin},
		{Name: "DeleteAdoption", Method: http.MethodDelete, Pattern: "/adoptions/:id", HandlerFunc: handleFunctions.AdoptionAPI.DeleteAdoption, access: admin},

		{Name: "CreateOrder", Method: http.MethodPost, Pattern: "/orders", HandlerFunc: handleFunctions.OrderAPI.CreateOrder, access: authenticated},
		{Name: "ListMyOrders", Method: http.MethodGet, Pattern: "/orders/my-orders", HandlerFunc: handleFunctions.OrderAPI.ListMyOrders, access: authenticated},
		{Name: "ListOrders", Method: http.MethodGet, Pattern: "/orders", HandlerFunc: handleFunctions.OrderAPI.ListOrders, access: admin},
		{Name: "GetOrder", Method: http.MethodGet, Pattern: "/orders/:id", HandlerFunc: handleFunctions.OrderAPI.GetOrder, access: authenticated},
		{Name: "UpdateOrderStatus", Method: http.MethodPatch, Pattern: "/orders/:id/status", HandlerFunc: handleFunctions.OrderAPI.UpdateOrderStatus, access: admin},

		{Name: "CreatePayment", Method: http.MethodPost, Pattern: "/payments/create-payment", HandlerFunc: handleFunctions.PaymentAPI.CreatePayment, access: authenticated, rateLimited: true},
		{Name: "VerifyPayment", Method: http.MethodPost, Pattern: "/payments/verify-payment", HandlerFunc: handleFunctions.PaymentAPI.VerifyPayment, access: authenticated, rateLimited: true},

		{Name: "GetMyProfile", Method: http.MethodGet, Pattern: "/users/me", HandlerFunc: handleFunctions.UserAPI.GetMyProfile, access: authenticated},
		{Name: "UpsertMyProfile", Method: http.MethodPut, Pattern: "/users/me", HandlerFunc: handleFunctions.UserAPI.UpsertMyProfile, access: authenticated},
	}
}
