// Package session holds the cross-view state that outlives any single
// screen: who is signed in, which patient is selected, and the data the
// active view renders from. Sessions are owned by the workflow navigator;
// nothing else mutates them.
package session

import (
	"sync"

	"dermoscan-be/internal/model"
)

// ResetFlow is the transient scratch state of the forgot-password sequence.
// It survives stage changes within the flow and is wiped on cancel or
// completion.
type ResetFlow struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// Session is the per-browser workflow state. View is the single visible
// screen; exactly one value at a time, by construction.
//
// Patients is the immutable source list; Visible is the derived filtered
// view the directory screen renders. Search recomputes Visible from
// Patients and never mutates the source, so filters cannot accumulate.
type Session struct {
	ID          string `json:"id"`
	CurrentUser string `json:"current_user"` // empty = signed out
	DisplayName string `json:"display_name"`
	View        string `json:"view"`

	Reset ResetFlow `json:"reset"`

	Patients []model.PatientRecord `json:"patients"`
	Visible  []model.PatientRecord `json:"visible"`

	Selected      *model.PatientRecord        `json:"selected"`
	Detail        *model.PatientDetail        `json:"detail"`
	SelectedImage int                         `json:"selected_image"` // -1 = none
	Result        *model.ClassificationResult `json:"result"`

	// mu serializes workflow events for this session. The controller
	// processes one event to completion, backend call included, before the
	// next one runs; rapid repeated clicks cannot fire duplicate
	// account-creation or classification requests.
	mu sync.Mutex
}

// Lock takes the per-session event lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session event lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// SignedIn reports whether the session carries an authenticated user.
func (s *Session) SignedIn() bool {
	return s.CurrentUser != ""
}

// ClearPatientData drops everything fetched for the selected patient. Called
// when the classification view is left; nothing patient-specific outlives it.
func (s *Session) ClearPatientData() {
	s.Selected = nil
	s.Detail = nil
	s.SelectedImage = -1
	s.Result = nil
}
