//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pawhaven-api"
	ConsumerName = "pawhaven-web"

	StatePetsBaseline    = "pets baseline"
	StatePetExists       = "pet pact-pet-1 exists"
	StateCatalogSeeded   = "pharmacy catalog seeded"
	StatePaymentUnsigned = "payment signature does not match"
)

const (
	ExistingPetID = "pact-pet-1"
	MissingPetID  = "pact-pet-404"

	ProductID = "pact-product-1"

	// UserToken is accepted by the provider's contract verifier as the pact user.
	UserToken = "pact-user-token"
	UserID    = "pact-user"
)

// OrderNumberPattern is the wire format of order numbers.
const OrderNumberPattern = `^ORD-\d{6}-\d{4}$`

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the web consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePetPayload provides stable pet data for interactions.
func ExamplePetPayload() map[string]any {
	return map[string]any{
		"id":           ExistingPetID,
		"name":         "Bruno",
		"category":     "Dog",
		"breed":        "Beagle",
		"age":          3,
		"gender":       "Male",
		"size":         "Medium",
		"description":  "Loves long walks",
		"healthStatus": "Vaccinated",
		"isAdopted":    false,
	}
}

// ExampleOrderRequest is a cash-on-delivery cart.
func ExampleOrderRequest() map[string]any {
	return map[string]any{
		"items": []map[string]any{{"productId": ProductID, "quantity": 2}},
		"shippingAddress": map[string]any{
			"fullName": "Pact User",
			"phone":    "9876543210",
			"email":    "pact.user@example.com",
			"address":  "221B MG Road, Bengaluru",
		},
		"paymentMethod": "cod",
	}
}

// ExampleForgedVerification carries a signature that cannot match.
func ExampleForgedVerification() map[string]any {
	return map[string]any{
		"orderCreationId":   "order_pact",
		"razorpayPaymentId": "pay_pact",
		"razorpaySignature": "0000000000000000000000000000000000000000000000000000000000000000",
		"orderData": map[string]any{
			"items":           ExampleOrderRequest()["items"],
			"shippingAddress": ExampleOrderRequest()["shippingAddress"],
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
