package server

import (
	"encoding/json"
	"net/http"

	"github.com/campusgrid/orgcanvas/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

// statusFor maps error codes to HTTP statuses. Unknown codes are treated as
// internal errors so nothing leaks as an accidental 200.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidStatus, errors.ErrCodeInvalidLevel:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeCompanyNotFound,
		errors.ErrCodeNodeNotFound, errors.ErrCodeBranchNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
