package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixmend/internal/core/domain"
)

func TestFlux_Analyze(t *testing.T) {
	image := domain.EncodedImage{Data: []byte("optimized"), MediaType: "image/jpeg"}
	editedBytes := []byte("edited image bytes")

	tests := []struct {
		name           string
		responseBody   interface{}
		responseStatus int
		wantErr        bool
		wantStatus     int
	}{
		{
			name:           "success",
			responseStatus: http.StatusOK,
		},
		{
			name:           "upstream error status surfaces",
			responseBody:   "temporarily unavailable",
			responseStatus: http.StatusServiceUnavailable,
			wantErr:        true,
			wantStatus:     http.StatusServiceUnavailable,
		},
		{
			name:           "malformed JSON",
			responseBody:   "{not_json}",
			responseStatus: http.StatusOK,
			wantErr:        true,
		},
		{
			name: "missing images",
			responseBody: map[string]interface{}{
				"images": []interface{}{},
			},
			responseStatus: http.StatusOK,
			wantErr:        true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			srv := httptest.NewServer(mux)
			defer srv.Close()

			mux.HandleFunc("/image", func(w http.ResponseWriter, _ *http.Request) {
				_, err := w.Write(editedBytes)
				assert.NoError(t, err)
			})
			mux.HandleFunc("/edit", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.responseStatus)
				switch b := tc.responseBody.(type) {
				case string:
					_, _ = w.Write([]byte(b))
				case nil:
					_ = json.NewEncoder(w).Encode(map[string]interface{}{
						"images": []interface{}{
							map[string]interface{}{"url": srv.URL + "/image"},
						},
					})
				default:
					_ = json.NewEncoder(w).Encode(b)
				}
			})

			a := NewFlux(srv.URL+"/edit", "test-api-key", "restore this photo")

			outcome, err := a.Analyze(t.Context(), image)
			if tc.wantErr {
				require.Error(t, err)

				var extErr *domain.ExternalError
				require.ErrorAs(t, err, &extErr)
				assert.Equal(t, tc.wantStatus, extErr.Status)
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.EditedImage, outcome.Kind)
				assert.Equal(t, editedBytes, outcome.Image)
				assert.Empty(t, outcome.Advice)
			}
		})
	}
}

func TestFlux_Analyze_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewFlux(srv.URL, "test-api-key", "restore")

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, err := a.Analyze(ctx, domain.EncodedImage{Data: []byte("x"), MediaType: "image/jpeg"})
	require.Error(t, err)

	var extErr *domain.ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Zero(t, extErr.Status)
}
