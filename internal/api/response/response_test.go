package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fxsync/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("x", "bad"), http.StatusBadRequest},
		{&domain.NotFoundError{Entity: "currency"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", domain.ErrCycleInProgress), http.StatusConflict},
		{domain.ErrRecalculationInProgress, http.StatusConflict},
		{fmt.Errorf("%w: timeout", domain.ErrFetchUnavailable), http.StatusBadGateway},
		{domain.ErrProviderRejected, http.StatusBadGateway},
		{domain.ErrInvalidResponse, http.StatusBadGateway},
		{domain.ErrSchedulerStopped, http.StatusServiceUnavailable},
		{&domain.PersistenceError{Message: "boom"}, http.StatusInternalServerError},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestError_PersistenceMessageVerbatim(t *testing.T) {
	rr := httptest.NewRecorder()
	err := fmt.Errorf("failed to apply: %w", &domain.PersistenceError{Message: `duplicate key value violates unique constraint "x"`})

	Error(rr, err, nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.Equal(t, `duplicate key value violates unique constraint "x"`, env.Message)
	require.Nil(t, env.Data)
}

func TestError_UnknownFaultIsGeneric(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, errors.New("secret detail"), nil)

	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "internal server error", env.Message)
}

func TestError_ProviderFaultMessageIsFixed(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: request for currency \"USD\" failed: Get \"http://host/KEY/latest/USD\"", domain.ErrFetchUnavailable), "rate provider unavailable"},
		{fmt.Errorf("%w: api returned \"invalid-key\"", domain.ErrProviderRejected), "rate provider rejected request"},
		{fmt.Errorf("%w: bad rate", domain.ErrInvalidResponse), "invalid rate provider response"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		Error(rr, tc.err, nil)

		require.Equal(t, http.StatusBadGateway, rr.Code)
		var env Envelope
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
		require.Equal(t, tc.want, env.Message)
		require.NotContains(t, rr.Body.String(), "KEY")
	}
}

func TestJSON_Success(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, "created", map[string]int{"id": 1})

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"success":true,"message":"created","data":{"id":1}}`, rr.Body.String())
}

type testRequest struct {
	CreatedByID int64 `json:"createdById" validate:"required,gt=0"`
}

func TestDecodeJSON(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "ok", body: `{"createdById": 3}`},
		{name: "missing", body: `{}`, wantErr: "createdById: is required"},
		{name: "negative", body: `{"createdById": -1}`, wantErr: "createdById: must be greater than 0"},
		{name: "unknown field", body: `{"createdById": 1, "x": 2}`, wantErr: "invalid request body"},
		{name: "malformed", body: `{`, wantErr: "invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			var dst testRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			if tc.wantErr == "" {
				require.NoError(t, err)
				require.Equal(t, int64(3), dst.CreatedByID)
				return
			}
			require.ErrorIs(t, err, domain.ErrValidationFailed)
			require.EqualError(t, err, tc.wantErr)
		})
	}
}
