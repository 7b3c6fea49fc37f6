package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"name":"court 1"}`},
		{name: "unknown field", body: `{"name":"a","extra":1}`, wantErr: true},
		{name: "two objects", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "malformed", body: `{"name":`, wantErr: true},
		{name: "empty", body: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSON(req, &dst)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "court 1", dst.Name)
		})
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondLocked(rec, "корт заблокирован")

	assert.Equal(t, http.StatusLocked, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "корт заблокирован", body.Error)
}

func TestRespondMapped(t *testing.T) {
	errGone := errors.New("gone")
	errBad := errors.New("bad input")
	mappings := []ErrorMapping{
		{Err: errGone, Status: http.StatusNotFound, Msg: "не найдено"},
		{Err: errBad, Status: http.StatusBadRequest},
	}

	tests := []struct {
		name    string
		err     error
		handled bool
		status  int
		msg     string
	}{
		{name: "wrapped", err: fmt.Errorf("%w: id=1", errGone), handled: true, status: http.StatusNotFound, msg: "не найдено"},
		{name: "message from error", err: fmt.Errorf("%w: empty reason", errBad), handled: true, status: http.StatusBadRequest, msg: "bad input: empty reason"},
		{name: "unmapped", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handled := RespondMapped(rec, tt.err, mappings)

			assert.Equal(t, tt.handled, handled)
			if !tt.handled {
				assert.Zero(t, rec.Body.Len())
				return
			}
			assert.Equal(t, tt.status, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.msg, body.Error)
		})
	}
}
