package response

import (
	"encoding/json"
	"errors"
	"fxsync/internal/domain"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func JSON(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success: statusCode < http.StatusBadRequest,
		Message: message,
		Data:    data,
	})
}

func Fail(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, message, nil)
}

// Error maps err to a status code and writes it. Server side faults are logged with fields.
func Error(w http.ResponseWriter, err error, fields logrus.Fields) {
	status := StatusFor(err)
	msg := MessageFor(err, status)

	switch {
	case status >= http.StatusInternalServerError && status != http.StatusBadGateway:
		logrus.WithError(err).WithFields(fields).Error(msg)
	case status == http.StatusBadGateway:
		logrus.WithError(err).WithFields(fields).Warn("rate provider call failed")
	}
	Fail(w, status, msg)
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCycleInProgress), errors.Is(err, domain.ErrRecalculationInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFetchUnavailable), errors.Is(err, domain.ErrProviderRejected), errors.Is(err, domain.ErrInvalidResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrSchedulerStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor picks the client message. Database messages pass through verbatim,
// provider faults only expose their kind.
func MessageFor(err error, status int) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		return pe.Message
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	for _, providerErr := range []error{domain.ErrFetchUnavailable, domain.ErrProviderRejected, domain.ErrInvalidResponse} {
		if errors.Is(err, providerErr) {
			return providerErr.Error()
		}
	}
	if status == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
