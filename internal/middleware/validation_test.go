package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "chartapp/internal/errors"
	api "chartapp/pkg/contracts/api/v1"
)

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     api.SaveChartRequest
		wantMsg string
		fields  []string
	}{
		{"valid", api.SaveChartRequest{Name: "a", ConfigJSON: "{}"}, "", nil},
		{"missing name", api.SaveChartRequest{ConfigJSON: "{}"}, "Chart name must not be empty", []string{"name"}},
		{"blank config", api.SaveChartRequest{Name: "a", ConfigJSON: "  "}, "Config JSON must not be empty", []string{"configJson"}},
		{"both missing", api.SaveChartRequest{}, "Chart name must not be empty", []string{"name", "configJson"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(&tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)

			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)
			var fields []string
			for _, d := range details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidator_DecodeJSON(t *testing.T) {
	v := NewValidator()

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"n","configJson":"{}","extra":1}`))
		var dst api.SaveChartRequest
		require.NoError(t, v.DecodeJSON(req, &dst))
		assert.Equal(t, "n", dst.Name)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var dst api.SaveChartRequest
		var apiErr *apierrors.APIError
		require.True(t, errors.As(v.DecodeJSON(req, &dst), &apiErr))
		assert.Equal(t, apierrors.CodeInvalidRequest, apiErr.ErrorCode)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var dst api.SaveChartRequest
		var apiErr *apierrors.APIError
		require.True(t, errors.As(v.DecodeJSON(req, &dst), &apiErr))
		assert.Equal(t, "Request body is required", apiErr.Message)
	})

	t.Run("non-struct target skips validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`[1,2]`))
		var dst []int
		require.NoError(t, v.DecodeJSON(req, &dst))
		assert.Equal(t, []int{1, 2}, dst)
	})
}
