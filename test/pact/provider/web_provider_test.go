//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pacttest "github.com/Apurer/pawhaven-api/test/pact"

	pawhavenserver "github.com/Apurer/pawhaven-api/go"
	adoptionsmemory "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/memory"
	adoptionspets "github.com/Apurer/pawhaven-api/internal/domains/adoptions/adapters/pets"
	adoptionsapp "github.com/Apurer/pawhaven-api/internal/domains/adoptions/application"
	petsmemory "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/memory"
	petsobs "github.com/Apurer/pawhaven-api/internal/domains/pets/adapters/observability"
	petsapp "github.com/Apurer/pawhaven-api/internal/domains/pets/application"
	petdomain "github.com/Apurer/pawhaven-api/internal/domains/pets/domain"
	storememory "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/memory"
	storeobs "github.com/Apurer/pawhaven-api/internal/domains/store/adapters/observability"
	"github.com/Apurer/pawhaven-api/internal/domains/store/adapters/sequence"
	storeapp "github.com/Apurer/pawhaven-api/internal/domains/store/application"
	storedomain "github.com/Apurer/pawhaven-api/internal/domains/store/domain"
	usersmemory "github.com/Apurer/pawhaven-api/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/pawhaven-api/internal/domains/users/application"
	"github.com/Apurer/pawhaven-api/internal/platform/auth"
)

func TestWebPortalProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	reset := func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
		app.reset(t)
		return nil, nil
	}
	stateHandlers := models.StateHandlers{
		pacttest.StatePetsBaseline:    reset,
		pacttest.StateCatalogSeeded:   reset,
		pacttest.StatePaymentUnsigned: reset,
		pacttest.StatePetExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedPet(t, pacttest.ExistingPetID)
			}
			return nil, nil
		},
	}

	err := pactprovider.NewVerifier().VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.reset(t)
			return nil
		},
	})
	require.NoError(t, err)
}

// contractVerifier accepts only the pact user token so recorded interactions stay valid.
type contractVerifier struct{}

func (contractVerifier) Verify(token string) (auth.Principal, error) {
	if token != pacttest.UserToken {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return auth.Principal{UserID: pacttest.UserID, Role: "user"}, nil
}

type contractProviderApp struct {
	mu     sync.RWMutex
	pets   *petsmemory.Repository
	router http.Handler
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.mu.RLock()
		router := app.router
		app.mu.RUnlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

// reset swaps in a router over fresh in-memory state.
func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()

	pets := petsmemory.NewRepository()
	petService := petsobs.New(petsapp.NewService(pets))

	orders := storememory.NewRepository()
	catalog := storememory.NewCatalog()
	require.NoError(t, catalog.Put(storedomain.Product{
		ID: pacttest.ProductID, Name: "Tick and Flea Drops", Category: "pharmacy",
		Price: decimal.NewFromInt(199), Active: true,
	}))
	storeService := storeobs.New(storeapp.NewService(orders, catalog, sequence.NewCounting(orders),
		storeapp.WithSigningSecret("pact-signing-secret"),
	))

	outbox := adoptionsmemory.NewOutbox()
	stores := adoptionsmemory.NewStores(adoptionsmemory.NewRepository(), adoptionspets.New(pets), outbox)
	adoptionService := adoptionsapp.NewService(stores, adoptionsmemory.NewTransactionManager(stores))

	handlers := pawhavenserver.ApiHandleFunctions{
		PetAPI:      pawhavenserver.NewPetAPI(petService),
		AdoptionAPI: pawhavenserver.NewAdoptionAPI(adoptionService),
		OrderAPI:    pawhavenserver.NewOrderAPI(storeService),
		PaymentAPI:  pawhavenserver.NewPaymentAPI(storeService),
		UserAPI:     pawhavenserver.NewUserAPI(usersapp.NewService(usersmemory.NewRepository())),
		HealthAPI:   pawhavenserver.NewHealthAPI(nil),
	}
	router := pawhavenserver.NewRouterWithGinEngine(gin.New(), handlers, pawhavenserver.RouterOptions{
		Verifier: contractVerifier{},
	})

	a.mu.Lock()
	a.pets = pets
	a.router = router
	a.mu.Unlock()
}

func (a *contractProviderApp) seedPet(t testing.TB, id string) {
	t.Helper()
	payload := pacttest.ExamplePetPayload()
	pet, err := petdomain.NewPet(id, petdomain.Profile{
		Name:         payload["name"].(string),
		Category:     petdomain.CategoryDog,
		Breed:        payload["breed"].(string),
		Age:          payload["age"].(int),
		Gender:       petdomain.GenderMale,
		Size:         petdomain.SizeMedium,
		Description:  payload["description"].(string),
		HealthStatus: petdomain.HealthVaccinated,
	})
	require.NoError(t, err)

	a.mu.RLock()
	pets := a.pets
	a.mu.RUnlock()
	_, err = pets.Save(context.Background(), pet)
	require.NoError(t, err)
}
