package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dermoscan-be/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySendsImageAndRanksResult(t *testing.T) {
	image := []byte("dermoscopy-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/classify", r.URL.Path)
		var body classifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		decoded, err := base64.StdEncoding.DecodeString(body.Image)
		require.NoError(t, err)
		assert.Equal(t, image, decoded)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"labels": []map[string]interface{}{
				{"label": "benign keratosis", "score": 0.05},
				{"label": "melanoma", "score": 0.62},
				{"label": "melanocytic nevus", "score": 0.21},
				{"label": "dermatofibroma", "score": 0.12},
			},
		})
	}))
	defer srv.Close()

	g := NewClassifierGateway(testAddr(srv))
	labels, err := g.Classify(context.Background(), image)
	require.NoError(t, err)

	require.Len(t, labels, TopLabels)
	assert.Equal(t, "melanoma", labels[0].Label)
	assert.Equal(t, "melanocytic nevus", labels[1].Label)
	assert.Equal(t, "dermatofibroma", labels[2].Label)
	for i := 1; i < len(labels); i++ {
		assert.GreaterOrEqual(t, labels[i-1].Score, labels[i].Score)
	}
}

func TestRankLabelsStableOnTies(t *testing.T) {
	in := []model.LabelScore{
		{Label: "a", Score: 0.4},
		{Label: "b", Score: 0.4},
		{Label: "c", Score: 0.2},
	}
	out := RankLabels(in)
	assert.Equal(t, []model.LabelScore{{Label: "a", Score: 0.4}, {Label: "b", Score: 0.4}, {Label: "c", Score: 0.2}}, out)
	// Input untouched.
	assert.Equal(t, "a", in[0].Label)
}

func TestClassifyServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewClassifierGateway(testAddr(srv))
	_, err := g.Classify(context.Background(), []byte("x"))
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusServiceUnavailable, svcErr.Status)
}
