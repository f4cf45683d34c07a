package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FTI-LMS/LMS/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClient_Enrich(t *testing.T) {
	var got classifyRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"category":"Security","trainingTopic":"Phishing","instructorName":"Ana","duration":12.5}`)
	}))
	defer srv.Close()

	meta, err := NewClientWithHTTP(srv.URL, srv.Client()).WithToken("tok").
		Enrich(context.Background(), "a.mp4", "drv", "F1")
	require.NoError(t, err)

	assert.Equal(t, classifyRequest{DriveID: "drv", ItemID: "F1", FileName: "a.mp4"}, got)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "Security", meta.Category)
	assert.Equal(t, "Phishing", meta.TrainingTopic)
	assert.Equal(t, "Ana", meta.InstructorName)
	require.NotNil(t, meta.Duration)
	assert.InDelta(t, 12.5, *meta.Duration, 1e-9)
}

func TestTokenClient_EnrichResponses(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantErr      bool
		wantDuration *float64
	}{
		{name: "missing duration", status: 200, body: `{"category":"Ops"}`},
		{name: "null duration", status: 200, body: `{"duration":null}`},
		{name: "empty string duration", status: 200, body: `{"duration":""}`},
		{name: "numeric string", status: 200, body: `{"duration":" 30 "}`, wantDuration: ptr(30)},
		{name: "non-numeric string", status: 200, body: `{"duration":"12.5 min"}`, wantErr: true},
		{name: "NaN string", status: 200, body: `{"category":"c","duration":"NaN"}`, wantErr: true},
		{name: "Inf string", status: 200, body: `{"duration":"Inf"}`, wantErr: true},
		{name: "signed infinity string", status: 200, body: `{"duration":"+Infinity"}`, wantErr: true},
		{name: "negative infinity string", status: 200, body: `{"duration":"-inf"}`, wantErr: true},
		{name: "empty object", status: 200, body: `{}`},
		{name: "malformed json", status: 200, body: `{"category":`, wantErr: true},
		{name: "server error", status: 500, body: `{"error":"model offline"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			meta, err := NewClientWithHTTP(srv.URL, srv.Client()).WithToken("").
				Enrich(context.Background(), "a.mp4", "drv", "F1")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrEnrichment)
				var enrichErr *domain.EnrichmentError
				require.ErrorAs(t, err, &enrichErr)
				assert.Equal(t, "F1", enrichErr.ItemID)
				assert.Equal(t, "a.mp4", enrichErr.FileName)
				return
			}
			require.NoError(t, err)
			if tt.wantDuration == nil {
				assert.Nil(t, meta.Duration)
				assert.Zero(t, meta.Minutes())
				return
			}
			require.NotNil(t, meta.Duration)
			assert.InDelta(t, *tt.wantDuration, *meta.Duration, 1e-9)
		})
	}
}

func TestTokenClient_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.URL, srv.Client()).WithToken("").
		Enrich(context.Background(), "a.mp4", "drv", "F1")
	require.NoError(t, err)
	assert.False(t, hadAuth)
}

func ptr(v float64) *float64 { return &v }
