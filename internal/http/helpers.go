package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/catalog/internal/catalog"
	"github.com/mrlokans/catalog/internal/logger"
)

// --- Response Types ---

// MessageResponse is the body of every non-500 response that is not a
// record or a list of records.
type MessageResponse struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"` // missing fields on validation errors
}

// resource names a record type in client-facing messages.
type resource string

const (
	resourceBook    resource = "Book"
	resourceLibrary resource = "Library"
)

func (r resource) invalidID() string { return "Invalid " + strings.ToLower(string(r)) + " ID" }
func (r resource) notFound() string  { return string(r) + " not found" }
func (r resource) updated() string   { return string(r) + " updated successfully" }
func (r resource) deleted() string   { return string(r) + " deleted successfully" }

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, MessageResponse{Message: message})
}

// respondStoreError logs the error and sends the raw store message as a
// plain-text 500 response.
func respondStoreError(c *gin.Context, err error, context string) {
	log := logger.Get()
	log.Error().Err(err).Str("request_id", c.GetString(ContextKeyRequestID)).Msgf("Store error (%s)", context)
	c.String(http.StatusInternalServerError, err.Error())
}

// respondError maps a record-access error onto its HTTP status.
func respondError(c *gin.Context, err error, r resource, context string) {
	var validationErr *catalog.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Missing required fields", Fields: validationErr.Fields})
	case errors.Is(err, catalog.ErrInvalidID):
		respondBadRequest(c, r.invalidID())
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, r.notFound())
	default:
		respondStoreError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Request Parsing ---

// bindJSON decodes the request body into obj. An empty body leaves obj
// untouched so that validation reports every required field. Returns
// false after responding with 400 on malformed JSON.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "Invalid request body")
		return false
	}
	return true
}
