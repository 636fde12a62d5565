package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"dermoscan-be/internal/model"
)

// TopLabels is how many ranked classes are surfaced to the clinician.
const TopLabels = 3

type IClassifierGateway interface {
	Classify(ctx context.Context, image []byte) ([]model.LabelScore, error)
}

type classifierGateway struct {
	baseURL string
	client  *http.Client
}

var _ IClassifierGateway = &classifierGateway{}

// NewClassifierGateway talks to the classification backend at addr
// (host:port). Inference is the one genuinely slow call in the system, so
// the client timeout is much wider than the other gateways'.
func NewClassifierGateway(addr string) IClassifierGateway {
	return &classifierGateway{
		baseURL: "http://" + addr,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type classifyRequest struct {
	Image string `json:"image"`
}

type classifyResponse struct {
	Labels []model.LabelScore `json:"labels"`
}

func (g *classifierGateway) Classify(ctx context.Context, image []byte) ([]model.LabelScore, error) {
	payload, err := json.Marshal(classifyRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/v1/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, connErr("classifier", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Service: "classifier", Status: resp.StatusCode}
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Service: "classifier", Status: resp.StatusCode}
	}
	return RankLabels(result.Labels), nil
}

// RankLabels sorts by descending score and truncates to the surfaced top
// classes. The sort is stable so equal scores keep the model's order.
func RankLabels(labels []model.LabelScore) []model.LabelScore {
	ranked := make([]model.LabelScore, len(labels))
	copy(ranked, labels)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > TopLabels {
		ranked = ranked[:TopLabels]
	}
	return ranked
}
