package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

const (
	CodeValidation       = "validation_error"
	CodeBadRequest       = "bad_request"
	CodeUnauthenticated  = "authentication_required"
	CodeTokenInvalid     = "token_invalid"
	CodePermissionDenied = "permission_denied"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeTooLarge         = "request_too_large"
	CodeRateLimited      = "rate_limit_exceeded"
	CodeInternal         = "internal_error"
)

func writeJSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = codec.NewEncoder(w).Encode(body)
}

func JSONSuccess(w http.ResponseWriter, statusCode int, code, message string, data any) {
	writeJSON(w, statusCode, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

func JSONError(w http.ResponseWriter, statusCode int, code, message string, errs any) {
	writeJSON(w, statusCode, Response{
		Success: false,
		Code:    code,
		Message: message,
		Errors:  errs,
	})
}

// JSONInternalError hides the cause from the client.
func JSONInternalError(w http.ResponseWriter) {
	JSONError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}

// DecodeJSON reads the request body into dst. An empty body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return codec.Unmarshal(body, dst)
}

// JSONDecodeError reports a body DecodeJSON could not read.
func JSONDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		JSONError(w, http.StatusRequestEntityTooLarge, CodeTooLarge, "Request body too large", nil)
		return
	}
	JSONError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body", nil)
}

// MethodNotAllowed answers requests whose path exists with another verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSONError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method "+r.Method+" not allowed", nil)
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(w, http.StatusNotFound, CodeNotFound, "Not found", nil)
}
