package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/catalog/internal/catalog"
)

func performRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) MessageResponse {
	t.Helper()

	var response MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestResourceMessages(t *testing.T) {
	assert.Equal(t, "Invalid book ID", resourceBook.invalidID())
	assert.Equal(t, "Book not found", resourceBook.notFound())
	assert.Equal(t, "Book updated successfully", resourceBook.updated())
	assert.Equal(t, "Book deleted successfully", resourceBook.deleted())

	assert.Equal(t, "Invalid library ID", resourceLibrary.invalidID())
	assert.Equal(t, "Library not found", resourceLibrary.notFound())
	assert.Equal(t, "Library updated successfully", resourceLibrary.updated())
	assert.Equal(t, "Library deleted successfully", resourceLibrary.deleted())
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "validation error",
			err:        &catalog.ValidationError{Fields: []string{"title", "isbn"}},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Missing required fields","fields":["title","isbn"]}`,
		},
		{
			name:       "invalid id",
			err:        catalog.ErrInvalidID,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid book ID"}`,
		},
		{
			name:       "not found",
			err:        catalog.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Book not found"}`,
		},
		{
			name:       "store error",
			err:        &catalog.StoreError{Op: "find books", Err: errors.New("server selection timeout")},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/", func(c *gin.Context) {
				respondError(c, tt.err, resourceBook, "test")
			})

			w := performRequest(t, router, http.MethodGet, "/", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				assert.Equal(t, tt.err.Error(), w.Body.String())
				assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
			}
		})
	}
}

func TestBindJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := func(c *gin.Context) {
		var in catalog.BookInput
		if !bindJSON(c, &in) {
			return
		}
		c.JSON(http.StatusOK, in)
	}

	t.Run("empty body leaves input zero", func(t *testing.T) {
		router := gin.New()
		router.POST("/", handler)

		w := performRequest(t, router, http.MethodPost, "/", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"title":"","isbn":null,"authors":null}`, w.Body.String())
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		router := gin.New()
		router.POST("/", handler)

		w := performRequest(t, router, http.MethodPost, "/", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid request body", decodeMessage(t, w).Message)
	})

	t.Run("wrong field type is rejected", func(t *testing.T) {
		router := gin.New()
		router.POST("/", handler)

		w := performRequest(t, router, http.MethodPost, "/", `{"title": 42}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
