package dto

import (
	"encoding/base64"

	"dermoscan-be/internal/model"
)

type SearchRequest struct {
	Column string `json:"column" validate:"required"`
	Query  string `json:"query"`
}

type SelectPatientRequest struct {
	RefID     string `json:"ref_id" validate:"required"`
	PatientID string `json:"patient_id" validate:"required"`
}

// PatientDetailResponse carries the classification view's patient panel.
// Images go back out base64-encoded, mirroring how the CDN delivers them.
type PatientDetailResponse struct {
	PatientID   string   `json:"patient_id"`
	Name        string   `json:"name"`
	Sex         string   `json:"sex"`
	DateOfBirth string   `json:"date_of_birth"`
	Notes       string   `json:"notes"`
	Images      []string `json:"images"`
}

func NewPatientDetailResponse(d *model.PatientDetail) *PatientDetailResponse {
	resp := &PatientDetailResponse{
		PatientID:   d.PatientID,
		Name:        d.Name,
		Sex:         d.Sex,
		DateOfBirth: d.DateOfBirth,
		Notes:       d.Notes,
	}
	for _, img := range d.Images {
		resp.Images = append(resp.Images, base64.StdEncoding.EncodeToString(img))
	}
	return resp
}
