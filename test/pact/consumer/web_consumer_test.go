//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/pawhaven-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type petPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	IsAdopted bool   `json:"isAdopted"`
}

type orderPayload struct {
	ID            string  `json:"id"`
	OrderNumber   string  `json:"orderNumber"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod"`
	TotalAmount   float64 `json:"totalAmount"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	kind   string
	title  string
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s (%s, status %d)", e.title, e.kind, e.status)
}

func TestWebPortalContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	pet := pacttest.ExamplePetPayload()
	jsonContentType := matchers.Regex("application/json; charset=utf-8", `application\/json(?:;\s?charset=utf-8)?`)
	problemContentType := matchers.S("application/problem+json")
	bearer := matchers.S("Bearer " + pacttest.UserToken)

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to view a pet profile").
		WithRequest("GET", "/pets/"+pacttest.ExistingPetID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":           matchers.S(pacttest.ExistingPetID),
				"name":         matchers.Like(pet["name"]),
				"category":     matchers.Term("Dog", "^(Dog|Cat|Bird|Fish|SmallAnimal|Other)$"),
				"breed":        matchers.Like(pet["breed"]),
				"age":          matchers.Like(pet["age"]),
				"healthStatus": matchers.Term("Vaccinated", "^(Healthy|Vaccinated|NeedsMedicalAttention)$"),
				"isAdopted":    matchers.Like(false),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePetsBaseline).
		UponReceiving("a request for a pet that is not listed").
		WithRequest("GET", "/pets/"+pacttest.MissingPetID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogSeeded).
		UponReceiving("a cash on delivery order").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearer)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderRequest())
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":            matchers.Like("order-1"),
				"orderNumber":   matchers.Term("ORD-250314-0001", pacttest.OrderNumberPattern),
				"status":        matchers.S("pending"),
				"paymentMethod": matchers.S("cod"),
				"totalAmount":   matchers.Like(398),
				"items":         matchers.EachLike(matchers.Map{"productId": matchers.S(pacttest.ProductID), "quantity": matchers.Like(2)}, 1),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePaymentUnsigned).
		UponReceiving("a payment verification with a forged signature").
		WithRequest("POST", "/payments/verify-payment", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Authorization", bearer)
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleForgedVerification())
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/security-error"),
				"status": matchers.Like(http.StatusBadRequest),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newWebClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var fetched petPayload
		if err := client.call(ctx, http.MethodGet, "/pets/"+pacttest.ExistingPetID, nil, &fetched); err != nil {
			return fmt.Errorf("get pet: %w", err)
		}
		if fetched.ID != pacttest.ExistingPetID || fetched.IsAdopted {
			return fmt.Errorf("unexpected pet %+v", fetched)
		}

		err := client.call(ctx, http.MethodGet, "/pets/"+pacttest.MissingPetID, nil, nil)
		if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for missing pet, got %v", err)
		}

		client.token = pacttest.UserToken
		var order orderPayload
		if err := client.call(ctx, http.MethodPost, "/orders", pacttest.ExampleOrderRequest(), &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if order.OrderNumber == "" || order.Status != "pending" {
			return fmt.Errorf("unexpected order %+v", order)
		}

		err = client.call(ctx, http.MethodPost, "/payments/verify-payment", pacttest.ExampleForgedVerification(), nil)
		if apiErr, ok := err.(apiError); !ok || apiErr.kind != "/problems/security-error" {
			return fmt.Errorf("expected security problem, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type webClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func newWebClient(config pactconsumer.MockServerConfig) *webClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &webClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *webClient) call(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		status := problem.Status
		if status == 0 {
			status = res.StatusCode
		}
		return apiError{status: status, kind: problem.Type, title: problem.Title}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
