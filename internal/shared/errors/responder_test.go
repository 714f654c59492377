package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = fmt.Errorf("missing")

func serve(t *testing.T, r *ChainedResponder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/things/:id", func(c *gin.Context) { r.RespondError(c, err) })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/7", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponderUsesFirstMatchingMapper(t *testing.T) {
	r := NewChainedResponder("https://pawhaven.example",
		func(err error) (ProblemDetail, bool) { return ProblemDetail{}, false },
		func(err error) (ProblemDetail, bool) {
			if err == errMissing {
				return ErrNotFound.WithDetail("thing not found"), true
			}
			return ProblemDetail{}, false
		},
	)

	rec, problem := serve(t, r, errMissing)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://pawhaven.example"+TypeNotFound, problem.Type)
	assert.Equal(t, "/things/7", problem.Instance)
	assert.Equal(t, "thing not found", problem.Detail)
}

func TestChainedResponderHidesUnmappedErrors(t *testing.T) {
	rec, problem := serve(t, NewChainedResponder(""), fmt.Errorf("dial tcp 10.0.0.4:5432: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.4")
	assert.Equal(t, TypeInternal, problem.Type)
}

func TestChainedResponderPassesProblemsThrough(t *testing.T) {
	rec, problem := serve(t, NewChainedResponder(""), ErrRateLimited.WithRetryAfter(1500*time.Millisecond))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, TypeRateLimited, problem.Type)
}

func TestProblemHelpers(t *testing.T) {
	validation := NewValidationProblem(map[string]string{"phone": "must be a 10 digit mobile number"})
	assert.Equal(t, http.StatusBadRequest, validation.Status)
	assert.Contains(t, validation.Extensions, "fields")

	conflict := NewRetryableConflict("order number taken")
	assert.Equal(t, true, conflict.Extensions["retryable"])
	assert.Equal(t, "Conflict: order number taken", conflict.Error())
	assert.Nil(t, ErrConflict.Extensions)
}
