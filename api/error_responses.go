package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonwraymond/docsearch/discovery"
	"github.com/jonwraymond/docsearch/index"
	"github.com/jonwraymond/docsearch/symboldoc"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeInvalidQuery   ErrorCode = "INVALID_QUERY"
	ErrorCodeInvalidCursor  ErrorCode = "INVALID_CURSOR"
	ErrorCodeInvalidDetail  ErrorCode = "INVALID_DETAIL"
	ErrorCodeSymbolNotFound ErrorCode = "SYMBOL_NOT_FOUND"
	ErrorCodeRateLimited    ErrorCode = "RATE_LIMITED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrorCodeSearchDisabled ErrorCode = "SEARCH_DISABLED"
	ErrorCodeReloadFailed   ErrorCode = "RELOAD_FAILED"
)

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is the standardized error response.
type APIError struct {
	Error ErrorBody `json:"error"`
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string) {
	resp := APIError{Error: ErrorBody{Code: code, Message: message}}
	if id, ok := c.Get(requestIDKey); ok {
		resp.Error.RequestID, _ = id.(string)
	}
	c.AbortWithStatusJSON(statusCode, resp)
}

// SendInvalidQueryError sends a 400 for malformed query parameters.
func SendInvalidQueryError(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, message)
}

// SendDiscoveryError maps a discovery error to its status and code.
func SendDiscoveryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, discovery.ErrSearchDisabled):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeSearchDisabled, err.Error())
	case errors.Is(err, discovery.ErrNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeSymbolNotFound, err.Error())
	case errors.Is(err, index.ErrInvalidCursor):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidCursor, err.Error())
	case errors.Is(err, symboldoc.ErrInvalidDetail):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidDetail, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeInternalError, err.Error())
	}
}
