package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecotrace/carbon-cli/internal/model"
)

func testFeatures() model.FeatureVector {
	return model.FeatureVector{
		Material:      "plastic",
		TransportMode: "sea",
		Recyclability: "non_recyclable",
		Origin:        "china",
		LogWeight:     0.356,
		WeightBucket:  "medium",
	}
}

func TestPredict_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/predict", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var fv model.FeatureVector
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fv))
		assert.Equal(t, "plastic", fv.Material)

		_ = json.NewEncoder(w).Encode(map[string]any{"grade": "B", "confidence": 0.91})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	pred, err := c.Predict(context.Background(), testFeatures())

	require.NoError(t, err)
	assert.Equal(t, model.GradeB, pred.Grade)
	assert.Equal(t, 0.91, pred.Confidence)
}

func TestPredict_UnknownGradeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"grade": "Z", "confidence": 0.9})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Predict(context.Background(), testFeatures())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown grade")
}

func TestPredict_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Predict(context.Background(), testFeatures())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestPredict_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(map[string]any{"grade": "A", "confidence": 0.9})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", WithTimeout(20*time.Millisecond))
	_, err := c.Predict(context.Background(), testFeatures())

	assert.Error(t, err)
}

func TestPredict_NoEndpointConfigured(t *testing.T) {
	c := NewClient("", "")
	_, err := c.Predict(context.Background(), testFeatures())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no endpoint")
}
