package handler

import (
	"errors"
	"net/http"

	"sitework/internal/domain"
	"sitework/internal/domain/models"
	"sitework/internal/httputil"
	"sitework/internal/service"
)

// handleError converts domain errors to HTTP responses.
func handleError(w http.ResponseWriter, err error) {
	var stateErr *domain.StateConflictError

	switch {
	case errors.As(err, &stateErr):
		httputil.RespondErrorDetails(w, stateErr.StatusCode(), stateErr.Message, stateErr.Details)
	case errors.Is(err, service.ErrPDFNotImplemented):
		httputil.RespondError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// mustAuth extracts the caller set by the auth middleware. A missing caller
// means a route was registered outside the middleware chain; respond 401
// rather than panic.
func mustAuth(w http.ResponseWriter, r *http.Request) (models.AuthContext, bool) {
	caller, ok := httputil.GetAuth(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
	}
	return caller, ok
}

// mutationEnvelope is the success envelope for create/update/delete: the
// record plus any recorded activity and notification.
func mutationEnvelope[T any](m *service.Mutation[T]) httputil.Envelope {
	env := httputil.Envelope{"data": m.Record}
	if m.Activity != nil {
		env["activity"] = m.Activity
	}
	if m.Notification != nil {
		env["notification"] = m.Notification
	}
	return env
}
