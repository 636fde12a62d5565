package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"dermoscan-be/internal/constant"
	"dermoscan-be/internal/dto"
	"dermoscan-be/internal/gateway"
	"dermoscan-be/internal/mapper"
	"dermoscan-be/internal/model"
	"dermoscan-be/internal/pkg/logger"
	"dermoscan-be/internal/session"
	"dermoscan-be/pkg/validate"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// ErrSessionNotFound means the session token refers to an expired or unknown
// session; the client has to open a new one.
var ErrSessionNotFound = errors.New("session not found or expired")

// Result is what a workflow step hands back to the controller: a snapshot
// of the view after the transition plus an optional user-facing message.
// The snapshot is taken while the per-session lock is held, so serializing
// it never races with the background refresher writing the session.
// Warning marks soft failures and non-fatal conditions; the step itself
// succeeded.
type Result struct {
	View    *dto.ViewResponse
	Message string
	Warning bool
}

// snapshot must be called with the session lock held.
func snapshot(s *session.Session, msg string, warn bool) *Result {
	return &Result{View: mapper.ToViewResponse(s), Message: msg, Warning: warn}
}

// INavigator sequences the views and owns every session mutation. One method
// per user action; each runs the pure transition, executes its effects
// against the gateways, and feeds the outcome back into the machine.
type INavigator interface {
	OpenSession() *session.Session
	CurrentView(ctx context.Context, sid string) (*Result, error)

	Login(ctx context.Context, sid, username, password string) (*Result, error)
	BeginAccountCreation(sid string) (*Result, error)
	BeginPasswordReset(sid string) (*Result, error)
	CreateAccount(ctx context.Context, sid, username, password, confirm, email, name string) (*Result, error)
	RequestReset(ctx context.Context, sid, email string) (*Result, error)
	VerifyResetCode(sid string, digits []string) (*Result, error)
	CompleteReset(sid, password, confirm string) (*Result, error)
	Cancel(sid string) (*Result, error)
	SignOut(sid string) (*Result, error)

	RefreshPatients(ctx context.Context, sid string) (*Result, error)
	SearchPatients(sid, column, query string) (*Result, error)
	SelectPatient(ctx context.Context, sid, refID, patientID string) (*Result, error)

	SelectImage(sid string, index int) (*Result, error)
	Classify(ctx context.Context, sid string) (*Result, error)
}

// SignedInSignal and PatientSelectedSignal are the payloads of the
// edge-triggered refresh topics.
type SignedInSignal struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

type PatientSelectedSignal struct {
	SessionID string `json:"session_id"`
	RefID     string `json:"ref_id"`
	PatientID string `json:"patient_id"`
}

type navigator struct {
	sessions   *session.Repository
	auth       gateway.IAuthGateway
	directory  gateway.IDirectoryGateway
	classifier gateway.IClassifierGateway
	publisher  message.Publisher
	log        logger.ILogger
}

func NewNavigator(
	sessions *session.Repository,
	auth gateway.IAuthGateway,
	directory gateway.IDirectoryGateway,
	classifier gateway.IClassifierGateway,
	publisher message.Publisher,
	log logger.ILogger,
) INavigator {
	return &navigator{
		sessions:   sessions,
		auth:       auth,
		directory:  directory,
		classifier: classifier,
		publisher:  publisher,
		log:        log,
	}
}

func (n *navigator) OpenSession() *session.Session {
	s := n.sessions.Create()
	n.log.Info("navigator", "session opened", map[string]interface{}{"session_id": s.ID})
	return s
}

func (n *navigator) session(sid string) (*session.Session, error) {
	s, ok := n.sessions.Get(sid)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// CurrentView reports the active view. It also loads the view's data on
// demand when the refresher has not come round yet, so rendering never
// depends on consumer timing.
func (n *navigator) CurrentView(ctx context.Context, sid string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	switch {
	case s.View == constant.ViewPatientList && s.Patients == nil && s.SignedIn():
		if err := n.loadPatients(ctx, s); err != nil {
			return snapshot(s, "Could not load the patient list", true), nil
		}
	case s.View == constant.ViewClassification && s.Detail == nil && s.Selected != nil:
		if err := n.loadDetail(ctx, s, s.Selected.RefID, s.Selected.PatientID); err != nil {
			return snapshot(s, "Could not load the patient record", true), nil
		}
	}
	return snapshot(s, "", false), nil
}

func (n *navigator) Login(ctx context.Context, sid, username, password string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if _, _, err := Transition(s.View, EvSubmitCredentials{Username: username, Password: password}); err != nil {
		return nil, err
	}

	res, err := n.auth.SignIn(ctx, username, validate.HashPassword(password))
	if err != nil {
		return nil, err
	}
	if !res.Success {
		s.View, _, _ = Transition(s.View, EvSignInDenied{})
		n.sessions.Save(s)
		return snapshot(s, "Login unsuccessful", true), nil
	}

	next, fx, _ := Transition(s.View, EvSignInOK{Username: username, DisplayName: res.DisplayName})
	s.View = next
	s.CurrentUser = username
	s.DisplayName = res.DisplayName
	n.log.Info("navigator", "user signed in", map[string]interface{}{"session_id": s.ID, "username": username})

	msg, warn := "Login successful", false
	for _, f := range fx {
		switch f {
		case FxPublishSignedIn:
			n.publish(constant.TopicSignedIn, SignedInSignal{SessionID: s.ID, Username: username})
		case FxListPatients:
			if err := n.loadPatients(ctx, s); err != nil {
				// The sign-in itself stands; the list loads again on refresh
				// or through the refresher.
				n.log.Warn("navigator", "patient list load after sign-in failed", map[string]interface{}{"error": err.Error()})
				msg, warn = "Signed in, but the patient list could not be loaded", true
			}
		}
	}
	n.sessions.Save(s)
	return snapshot(s, msg, warn), nil
}

func (n *navigator) BeginAccountCreation(sid string) (*Result, error) {
	return n.apply(sid, EvGoAccountCreation{})
}

func (n *navigator) BeginPasswordReset(sid string) (*Result, error) {
	return n.apply(sid, EvGoForgotPassword{})
}

func (n *navigator) CreateAccount(ctx context.Context, sid, username, password, confirm, email, name string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	ev := EvSubmitAccountForm{Username: username, Password: password, Confirm: confirm, Email: email, Name: name}
	if _, _, err := Transition(s.View, ev); err != nil {
		return nil, err
	}

	ok, err := n.auth.CreateAccount(ctx, username, validate.HashPassword(password), email, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.View, _, _ = Transition(s.View, EvAccountTaken{})
		n.sessions.Save(s)
		return snapshot(s, "Username or email already taken", true), nil
	}

	s.View, _, _ = Transition(s.View, EvAccountCreated{})
	n.sessions.Save(s)
	n.log.Info("navigator", "account created", map[string]interface{}{"username": username})
	return snapshot(s, "Account created, you can now sign in", false), nil
}

func (n *navigator) RequestReset(ctx context.Context, sid, email string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if _, _, err := Transition(s.View, EvSubmitResetEmail{Email: email}); err != nil {
		return nil, err
	}

	ok, err := n.auth.RequestPasswordReset(ctx, email)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.View, _, _ = Transition(s.View, EvResetEmailDenied{})
		s.Reset.Email = email // kept for retry
		n.sessions.Save(s)
		return snapshot(s, "Could not request a reset code", true), nil
	}

	s.View, _, _ = Transition(s.View, EvResetEmailAccepted{})
	s.Reset.Email = email
	n.sessions.Save(s)
	return snapshot(s, "A verification code has been sent if the address is registered", false), nil
}

func (n *navigator) VerifyResetCode(sid string, digits []string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	next, _, err := Transition(s.View, EvSubmitResetCode{Digits: digits})
	if err != nil {
		return nil, err
	}
	code, _ := validate.AssembleCode(digits)
	s.View = next
	s.Reset.Code = code
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

func (n *navigator) CompleteReset(sid, password, confirm string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	next, fx, err := Transition(s.View, EvSubmitNewPassword{Password: password, Confirm: confirm})
	if err != nil {
		return nil, err
	}
	s.View = next
	n.runLocalEffects(s, fx)
	n.sessions.Save(s)
	return snapshot(s, "Password updated, sign in with your new password", false), nil
}

func (n *navigator) Cancel(sid string) (*Result, error) {
	return n.apply(sid, EvCancel{})
}

func (n *navigator) SignOut(sid string) (*Result, error) {
	return n.apply(sid, EvSignOut{})
}

func (n *navigator) RefreshPatients(ctx context.Context, sid string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if _, _, err := Transition(s.View, EvRefreshPatients{}); err != nil {
		return nil, err
	}
	if err := n.loadPatients(ctx, s); err != nil {
		return nil, err
	}
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

func (n *navigator) SearchPatients(sid, column, query string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if _, _, err := Transition(s.View, EvSearchPatients{Column: column, Query: query}); err != nil {
		return nil, err
	}

	matched, err := FilterPatients(s.Patients, column, query)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		// The last good table stays on screen; an empty result is a warning,
		// never a blank directory.
		return snapshot(s, "No patients match the search", true), nil
	}
	s.Visible = matched
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

func (n *navigator) SelectPatient(ctx context.Context, sid, refID, patientID string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	if _, _, err := Transition(s.View, EvSelectPatient{RefID: refID, PatientID: patientID}); err != nil {
		return nil, err
	}

	if err := n.loadDetail(ctx, s, refID, patientID); err != nil {
		return nil, err
	}

	next, fx, _ := Transition(s.View, EvDetailLoaded{})
	s.View = next
	for _, f := range fx {
		if f == FxPublishPatientSelected {
			n.publish(constant.TopicPatientSelected, PatientSelectedSignal{SessionID: s.ID, RefID: refID, PatientID: patientID})
		}
	}
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

func (n *navigator) SelectImage(sid string, index int) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	count := 0
	if s.Detail != nil {
		count = len(s.Detail.Images)
	}
	if _, _, err := Transition(s.View, EvSelectImage{Index: index, Count: count}); err != nil {
		return nil, err
	}
	s.SelectedImage = index
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

func (n *navigator) Classify(ctx context.Context, sid string) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	hasSelection := s.Detail != nil && s.SelectedImage >= 0 && s.SelectedImage < len(s.Detail.Images)
	if _, _, err := Transition(s.View, EvSubmitClassification{HasSelection: hasSelection}); err != nil {
		return nil, err
	}

	n.log.Info("navigator", "classifying image", map[string]interface{}{"session_id": s.ID, "image": s.SelectedImage})
	labels, err := n.classifier.Classify(ctx, s.Detail.Images[s.SelectedImage])
	if err != nil {
		return nil, err
	}

	s.View, _, _ = Transition(s.View, EvClassified{})
	s.Result = &model.ClassificationResult{SourceImage: s.SelectedImage, Labels: labels}
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

// apply runs an event whose effects are all local (no gateway call).
func (n *navigator) apply(sid string, ev Event) (*Result, error) {
	s, err := n.session(sid)
	if err != nil {
		return nil, err
	}
	s.Lock()
	defer s.Unlock()

	next, fx, err := Transition(s.View, ev)
	if err != nil {
		return nil, err
	}
	s.View = next
	n.runLocalEffects(s, fx)
	n.sessions.Save(s)
	return snapshot(s, "", false), nil
}

func (n *navigator) runLocalEffects(s *session.Session, fx []Effect) {
	for _, f := range fx {
		switch f {
		case FxClearReset:
			s.Reset = session.ResetFlow{}
		case FxClearSelection:
			s.ClearPatientData()
		case FxClearUser:
			s.CurrentUser = ""
			s.DisplayName = ""
			s.Patients = nil
			s.Visible = nil
		}
	}
}

func (n *navigator) loadPatients(ctx context.Context, s *session.Session) error {
	rows, err := n.directory.ListPatients(ctx, s.CurrentUser)
	if err != nil {
		return err
	}
	s.Patients = rows
	s.Visible = rows // entry and refresh reset the search filter
	return nil
}

func (n *navigator) loadDetail(ctx context.Context, s *session.Session, refID, patientID string) error {
	detail, err := n.directory.GetPatientDetail(ctx, refID, patientID)
	if err != nil {
		return err
	}
	for i := range s.Patients {
		if s.Patients[i].RefID == refID && s.Patients[i].PatientID == patientID {
			s.Selected = &s.Patients[i]
			break
		}
	}
	s.Detail = detail
	s.SelectedImage = -1
	s.Result = nil
	return nil
}

func (n *navigator) publish(topic string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		n.log.Error("navigator", "signal marshal failed", map[string]interface{}{"topic": topic, "error": err.Error()})
		return
	}
	if err := n.publisher.Publish(topic, message.NewMessage(watermill.NewUUID(), body)); err != nil {
		n.log.Warn("navigator", "signal publish failed", map[string]interface{}{"topic": topic, "error": err.Error()})
	}
}

// FilterPatients recomputes the visible table from the immutable source
// rows: case-insensitive substring match of query against the chosen
// column. The source is never mutated, so repeated searches cannot
// accumulate lossy filters.
func FilterPatients(rows []model.PatientRecord, column, query string) ([]model.PatientRecord, error) {
	q := strings.ToLower(query)
	cell := func(r model.PatientRecord) string {
		switch column {
		case model.ColumnRefID:
			return r.RefID
		case model.ColumnName:
			return r.Name
		case model.ColumnPatientID:
			return r.PatientID
		case model.ColumnSamples:
			return strconv.Itoa(r.Samples)
		case model.ColumnDate:
			return r.Date
		}
		return ""
	}
	switch column {
	case model.ColumnRefID, model.ColumnName, model.ColumnPatientID, model.ColumnSamples, model.ColumnDate:
	default:
		return nil, invalid("column", "Unknown search column")
	}

	var matched []model.PatientRecord
	for _, r := range rows {
		if strings.Contains(strings.ToLower(cell(r)), q) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}
