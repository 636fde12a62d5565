package mapper

import (
	"dermoscan-be/internal/constant"
	"dermoscan-be/internal/dto"
	"dermoscan-be/internal/session"
)

// ToViewResponse projects a session onto what the presentation layer
// renders: the single active view and that view's data, nothing more.
// Callers must hold the session lock; the navigator snapshots through
// this before releasing it.
func ToViewResponse(s *session.Session) *dto.ViewResponse {
	resp := &dto.ViewResponse{
		View:          s.View,
		SelectedImage: s.SelectedImage,
	}
	switch s.View {
	case constant.ViewPatientList:
		resp.DisplayName = s.DisplayName
		resp.Patients = s.Visible
	case constant.ViewClassification:
		resp.DisplayName = s.DisplayName
		if s.Detail != nil {
			resp.Patient = dto.NewPatientDetailResponse(s.Detail)
		}
		resp.Result = s.Result
	}
	return resp
}
