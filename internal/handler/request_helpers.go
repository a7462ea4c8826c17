package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/storefront/internal/auth"
	"github.com/osse101/storefront/internal/domain"
	"github.com/osse101/storefront/internal/logger"
)

const (
	ErrMsgEmptyBody = "Request body is empty"

	LogMsgDecodeFailed     = "Request body could not be decoded"
	LogMsgValidationFailed = "Request body failed validation"
	LogMsgMissingPathParam = "Path parameter missing"
)

// ValidationErrorResponse is the 400 body for tag failures
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// DecodeAndValidateRequest reads a JSON body into req and checks its
// validate tags. On error the response has already been written.
func DecodeAndValidateRequest(r *http.Request, w http.ResponseWriter, req interface{}, actionName string) error {
	log := logger.FromContext(r.Context()).With("action", actionName)

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		log.Warn(LogMsgDecodeFailed, "error", err)
		msg := ErrMsgInvalidRequest
		if errors.Is(err, io.EOF) {
			msg = ErrMsgEmptyBody
		}
		respondError(w, http.StatusBadRequest, msg)
		return err
	}

	if err := GetValidator().ValidateStruct(req); err != nil {
		fields := FormatValidationError(err)
		log.Warn(LogMsgValidationFailed, "fields", fields)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidRequestSummary,
			Fields: fields,
		})
		return err
	}
	return nil
}

// DecodeForUser is DecodeAndValidateRequest for ledger mutations. A
// signed-out caller is answered before the body is read: reject runs the
// ledger operation, which refuses it and publishes the sign-in
// notification, and its error becomes the response.
func DecodeForUser(r *http.Request, w http.ResponseWriter, req interface{}, actionName string, reject func(ctx context.Context) error) error {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		err := reject(r.Context())
		if err == nil {
			err = domain.ErrUnauthenticated
		}
		respondServiceError(w, r, actionName, err)
		return err
	}
	return DecodeAndValidateRequest(r, w, req, actionName)
}

// GetPathParam returns a chi URL parameter. When it is empty a 400 has been
// written and ok is false.
func GetPathParam(r *http.Request, w http.ResponseWriter, paramName string) (string, bool) {
	if value := chi.URLParam(r, paramName); value != "" {
		return value, true
	}
	logger.FromContext(r.Context()).Warn(LogMsgMissingPathParam, "param", paramName)
	respondError(w, http.StatusBadRequest, fmt.Sprintf(ErrMsgMissingPathParam, paramName))
	return "", false
}

// GetOptionalQueryParam returns a query parameter or defaultValue when unset
func GetOptionalQueryParam(r *http.Request, paramName string, defaultValue string) string {
	if value := r.URL.Query().Get(paramName); value != "" {
		return value
	}
	return defaultValue
}
