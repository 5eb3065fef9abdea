package httpapi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/nikolayk812/cartsync/internal/cartsync"
	"github.com/nikolayk812/cartsync/internal/checkout"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // nothing to do when the client went away
	w.Write(data)
}

func respondError(w http.ResponseWriter, status int, code, msg string) {
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}

// respondDomainError maps the error taxonomy to HTTP statuses.
func respondDomainError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Code: "validation_failed", Fields: verr.Fields})
	case errors.Is(err, domain.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "not_authenticated", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domain.ErrVerificationNeeded):
		respondError(w, http.StatusForbidden, "verification_needed", "Please check your email to confirm your account")
	case errors.Is(err, domain.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, domain.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, cartsync.ErrInvalidItem):
		respondError(w, http.StatusBadRequest, "invalid_product_id", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrPaymentDeclined):
		respondError(w, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.Is(err, domain.ErrPartialWrite), errors.Is(err, domain.ErrRemoteUnavailable):
		log.Error().Err(err).Msg("remote store unavailable")
		respondError(w, http.StatusServiceUnavailable, "remote_unavailable", "The store is unavailable, please try again")
	default:
		log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	return true
}
