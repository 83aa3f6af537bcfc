package jsonutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), "body: %s", rec.Body.String())
	return m
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusTeapot, map[string]int{"count": 3})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, float64(3), decodeBody(t, rec)["count"])
}

func TestJSON_NilData(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, nil)
	assert.Empty(t, rec.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		write func(http.ResponseWriter, string)
		code  int
	}{
		{"BadRequest", BadRequest, http.StatusBadRequest},
		{"Unauthorized", Unauthorized, http.StatusUnauthorized},
		{"Forbidden", Forbidden, http.StatusForbidden},
		{"NotFound", NotFound, http.StatusNotFound},
		{"Conflict", Conflict, http.StatusConflict},
		{"TooManyRequests", TooManyRequests, http.StatusTooManyRequests},
		{"ServiceUnavailable", ServiceUnavailable, http.StatusServiceUnavailable},
		{"InternalError", InternalError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec, "slug already in use")
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, map[string]any{"error": "slug already in use"}, decodeBody(t, rec))
		})
	}
}

func TestSuccessHelpers(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"reference": "INQ-1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	Created(rec, map[string]string{"reference": "INQ-1"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "INQ-1", decodeBody(t, rec)["reference"])

	rec = httptest.NewRecorder()
	Accepted(rec, "pending")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"pending"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"mobile": "Mobile number must be a valid phone number."})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t,
		`{"error":"validation failed","fields":{"mobile":"Mobile number must be a valid phone number."}}`,
		rec.Body.String())
}

type patchBody struct {
	Title string `json:"title"`
}

func TestDecodeStrict(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		code    int
	}{
		{"valid", `{"title":"Family law"}`, false, 0},
		{"unknown field", `{"title":"x","admin":true}`, true, http.StatusBadRequest},
		{"malformed", `{"title":`, true, http.StatusBadRequest},
		{"empty", ``, true, http.StatusBadRequest},
		{"too large", `{"title":"` + strings.Repeat("a", MaxBodyBytes) + `"}`, true, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body))

			var got patchBody
			err := DecodeStrict(rec, req, &got)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Family law", got.Title)
				return
			}
			require.Error(t, err)

			out := httptest.NewRecorder()
			DecodeFailed(out, err)
			assert.Equal(t, tt.code, out.Code)
		})
	}
}
