package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dermoscan-be/internal/model"
)

type IDirectoryGateway interface {
	ListPatients(ctx context.Context, username string) ([]model.PatientRecord, error)
	GetPatientDetail(ctx context.Context, refID, patientID string) (*model.PatientDetail, error)
}

type directoryGateway struct {
	baseURL string
	client  *http.Client
}

var _ IDirectoryGateway = &directoryGateway{}

// NewDirectoryGateway talks to the CDN backend at addr (host:port).
func NewDirectoryGateway(addr string) IDirectoryGateway {
	return &directoryGateway{
		baseURL: "http://" + addr,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type patientListResponse struct {
	Patients []model.PatientRecord `json:"patients"`
}

type patientDataResponse struct {
	Name        string   `json:"name"`
	Sex         string   `json:"sex"`
	DateOfBirth string   `json:"date_of_birth"`
	Comments    []string `json:"comments"`
	Samples     []struct {
		Image string `json:"image"`
	} `json:"samples"`
}

func (g *directoryGateway) ListPatients(ctx context.Context, username string) ([]model.PatientRecord, error) {
	q := url.Values{}
	q.Set("username", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/api/v1/patient-list?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, connErr("directory", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Service: "directory", Status: resp.StatusCode}
	}

	var result patientListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Service: "directory", Status: resp.StatusCode}
	}
	return result.Patients, nil
}

func (g *directoryGateway) GetPatientDetail(ctx context.Context, refID, patientID string) (*model.PatientDetail, error) {
	q := url.Values{}
	q.Set("ref_id", refID)
	q.Set("patient_id", patientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/api/v1/patient-data?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, connErr("directory", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Service: "directory", Status: resp.StatusCode}
	}

	var result patientDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Service: "directory", Status: resp.StatusCode}
	}

	detail := &model.PatientDetail{
		PatientID:   patientID,
		Name:        result.Name,
		Sex:         result.Sex,
		DateOfBirth: result.DateOfBirth,
		Notes:       JoinComments(result.Comments),
	}
	for _, sample := range result.Samples {
		img, err := base64.StdEncoding.DecodeString(sample.Image)
		if err != nil {
			return nil, fmt.Errorf("directory: sample image not valid base64: %w", err)
		}
		detail.Images = append(detail.Images, img)
	}
	return detail, nil
}

// JoinComments renders the patient comment strings as one notes block, one
// numbered "Comment N:" line per comment.
func JoinComments(comments []string) string {
	lines := make([]string, 0, len(comments))
	for i, c := range comments {
		lines = append(lines, fmt.Sprintf("Comment %d: %s", i+1, c))
	}
	return strings.Join(lines, "\n")
}
