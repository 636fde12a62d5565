package dto

import "dermoscan-be/internal/model"

type SelectImageRequest struct {
	Index *int `json:"index" validate:"required"`
}

// ViewResponse is the generic "what should the screen show now" answer: the
// active view plus whatever data that view renders.
type ViewResponse struct {
	View          string                      `json:"view"`
	DisplayName   string                      `json:"display_name,omitempty"`
	Patients      []model.PatientRecord       `json:"patients,omitempty"`
	Patient       *PatientDetailResponse      `json:"patient,omitempty"`
	SelectedImage int                         `json:"selected_image"`
	Result        *model.ClassificationResult `json:"result,omitempty"`
}
