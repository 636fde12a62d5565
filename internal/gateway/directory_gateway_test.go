package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPatients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patient-list", r.URL.Path)
		assert.Equal(t, "doc1", r.URL.Query().Get("username"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"patients": []map[string]interface{}{
				{"ref_id": "ISIC_1", "name": "Jane Doe", "patient_id": "P-1", "samples": 5, "date": "2023-01-12"},
				{"ref_id": "ISIC_2", "name": "John Smith", "patient_id": "P-2", "samples": 3, "date": "2023-01-15"},
			},
		})
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testAddr(srv))
	rows, err := g.ListPatients(context.Background(), "doc1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Jane Doe", rows[0].Name)
	assert.Equal(t, 5, rows[0].Samples)
	assert.Equal(t, "P-2", rows[1].PatientID)
}

func TestGetPatientDetailDecodesImagesAndJoinsComments(t *testing.T) {
	img1 := []byte{0xff, 0xd8, 0xff, 0xe0} // jpeg magic, content irrelevant
	img2 := []byte("second-sample")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/patient-data", r.URL.Path)
		assert.Equal(t, "ISIC_1", r.URL.Query().Get("ref_id"))
		assert.Equal(t, "P-1", r.URL.Query().Get("patient_id"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":          "Jane Doe",
			"sex":           "F",
			"date_of_birth": "1974-03-02",
			"comments":      []string{"first note", "second note"},
			"samples": []map[string]string{
				{"image": base64.StdEncoding.EncodeToString(img1)},
				{"image": base64.StdEncoding.EncodeToString(img2)},
			},
		})
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testAddr(srv))
	detail, err := g.GetPatientDetail(context.Background(), "ISIC_1", "P-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", detail.Name)
	assert.Equal(t, "F", detail.Sex)
	assert.Equal(t, "Comment 1: first note\nComment 2: second note", detail.Notes)
	require.Len(t, detail.Images, 2)
	assert.Equal(t, img1, detail.Images[0])
	assert.Equal(t, img2, detail.Images[1])
}

func TestGetPatientDetailRejectsBadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"name":    "Jane Doe",
			"samples": []map[string]string{{"image": "!!not-base64!!"}},
		})
	}))
	defer srv.Close()

	g := NewDirectoryGateway(testAddr(srv))
	_, err := g.GetPatientDetail(context.Background(), "ISIC_1", "P-1")
	assert.Error(t, err)
}

func TestJoinComments(t *testing.T) {
	assert.Equal(t, "", JoinComments(nil))
	assert.Equal(t, "Comment 1: only", JoinComments([]string{"only"}))
}

func TestFixtureDirectoryHasNineteenRowsWithTwoDoes(t *testing.T) {
	g := NewFixtureDirectoryGateway()
	rows, err := g.ListPatients(context.Background(), "doc1")
	require.NoError(t, err)
	assert.Len(t, rows, 19)

	does := 0
	for _, r := range rows {
		if r.Name == "Jane Doe" || r.Name == "John Doe" {
			does++
		}
	}
	assert.Equal(t, 2, does)
}
