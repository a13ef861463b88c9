package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	customError "github.com/segyhp/rental-manager/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		customError.ErrCodeInvalidInput:     http.StatusBadRequest,
		customError.ErrCodeInvalidRange:     http.StatusBadRequest,
		customError.ErrCodeContractNotFound: http.StatusNotFound,
		customError.ErrCodeOwnerNotFound:    http.StatusNotFound,
		customError.ErrCodeReceiptNotFound:  http.StatusNotFound,
		customError.ErrCodeUnauthorized:     http.StatusUnauthorized,
		customError.ErrCodeStoreFailure:     http.StatusInternalServerError,
		customError.ErrCodeDocumentFailure:  http.StatusBadGateway,
		"SOMETHING_ELSE":                    http.StatusInternalServerError,
	}

	for code, status := range tests {
		assert.Equal(t, status, StatusFor(code), code)
	}
}

func TestBusinessError(t *testing.T) {
	t.Run("client error carries code and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		BusinessError(w, customError.WrapContractNotFound("abc"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, customError.ErrCodeContractNotFound, body.Code)
		assert.Equal(t, "Contract with ID abc not found", body.Message)
	})

	t.Run("store failure hides the driver error", func(t *testing.T) {
		w := httptest.NewRecorder()
		BusinessError(w, customError.WrapStoreFailure(errors.New("pq: relation \"settlements\" does not exist")))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "relation")
	})

	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		BusinessError(w, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}

func TestFile(t *testing.T) {
	w := httptest.NewRecorder()
	File(w, "application/pdf", "receipt-1.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "4", w.Header().Get("Content-Length"))
	assert.Equal(t, `attachment; filename="receipt-1.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF", w.Body.String())
}

func TestJSON_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.False(t, body.Timestamp.IsZero())
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	h := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/arrears", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, called)
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Session-Token")
}
