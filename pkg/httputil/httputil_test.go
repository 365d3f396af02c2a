package httputil_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflow/idscan-service/pkg/errors"
	"github.com/medflow/idscan-service/pkg/httputil"
	"github.com/medflow/idscan-service/pkg/testutil"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	httputil.JSON(rr, http.StatusOK, map[string]string{"status": "ok"})

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, rr.Body.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error", errors.NotFound("job"), http.StatusNotFound, "NOT_FOUND"},
		{"unprocessable", errors.Unprocessable("nope"), http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"plain error is hidden", io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			httputil.Error(rr, tt.err)

			testutil.AssertStatus(t, rr, tt.wantStatus)
			var resp httputil.Response
			testutil.ParseJSONBody(t, rr, &resp)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

type decodeTarget struct {
	Payload string `json:"payload"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		limit      int64
		wantStatus int
	}{
		{"valid", `{"payload":"DAQ1"}`, 1024, 0},
		{"no limit", `{"payload":"DAQ1"}`, 0, 0},
		{"empty", ``, 1024, http.StatusBadRequest},
		{"malformed", `{"payload":`, 1024, http.StatusBadRequest},
		{"unknown field", `{"payload":"x","extra":1}`, 1024, http.StatusBadRequest},
		{"too large", `{"payload":"` + strings.Repeat("A", 200) + `"}`, 64, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewHTTPRequest(http.MethodPost, "/", tt.body)
			var v decodeTarget
			err := httputil.DecodeJSON(httptest.NewRecorder(), req, &v, tt.limit)

			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, "DAQ1", v.Payload)
				return
			}
			var appErr *errors.AppError
			require.True(t, errors.As(err, &appErr), "want AppError, got %v", err)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
		})
	}
}

type validated struct {
	DocumentType string `json:"document_type" validate:"required,oneof=drivers_license id_card"`
	Consent      string `json:"consent_timestamp" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, httputil.Validate(validated{DocumentType: "id_card", Consent: "2024-05-01T10:00:00Z"}))

	err := httputil.Validate(validated{DocumentType: "passport", Consent: "yesterday"})
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Details["document_type"], "must be one of")
	assert.Contains(t, appErr.Details["consent_timestamp"], "must be a timestamp")

	err = httputil.Validate(validated{})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "this field is required", appErr.Details["document_type"])
}
