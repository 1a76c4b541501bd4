package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/usecase"
	sonic "github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Responses follow the Google JSON style guide: {"apiVersion", "data"} or {"apiVersion", "error"}.
const (
	apiVersion  = "2.0"
	errorDomain = "api-futbol"

	internalErrorMessage = "internal server error"
)

type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass is the wire shape of one error category.
type errorClass struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalErrorClass = errorClass{http.StatusInternalServerError, "internalError", "INTERNAL"}

// Order matters: survivor rule errors wrap ErrIneligible and friends, so specific
// categories are listed before the generic ones they share a chain with.
var errorClasses = []struct {
	target error
	class  errorClass
}{
	{usecase.ErrInvalidInput, errorClass{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrUnauthorized, errorClass{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, errorClass{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}},
	{usecase.ErrNotFound, errorClass{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{survivor.ErrInsufficientFunds, errorClass{http.StatusPaymentRequired, "insufficientFunds", "FAILED_PRECONDITION"}},
	{survivor.ErrInvalidPhase, errorClass{http.StatusConflict, "invalidPhase", "FAILED_PRECONDITION"}},
	{survivor.ErrVersionConflict, errorClass{http.StatusConflict, "conflict", "ABORTED"}},
	{survivor.ErrIneligible, errorClass{http.StatusUnprocessableEntity, "ineligible", "FAILED_PRECONDITION"}},
	{usecase.ErrDependencyUnavailable, errorClass{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func classifyError(err error) errorClass {
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c.class
		}
	}
	return internalErrorClass
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

// writeError renders err with its category. Messages of unclassified errors never
// leave the process; they are recorded on the active span instead.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	message := err.Error()
	if class == internalErrorClass {
		span := trace.SpanFromContext(ctx)
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
		message = internalErrorMessage
	}
	writeErrorBody(w, class, message)
}

func writeInternalError(w http.ResponseWriter) {
	writeErrorBody(w, internalErrorClass, internalErrorMessage)
}

func writeErrorBody(w http.ResponseWriter, class errorClass, message string) {
	writeJSON(w, class.HTTPStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.HTTPStatus,
			Message: message,
			Status:  class.Status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: class.Reason, Message: message}},
		},
	})
}
