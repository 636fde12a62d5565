package workflow

// Event is one user action or one fed-back gateway outcome. Transitions are
// pure over (view, event); everything a guard needs rides on the event
// itself, so the table never touches the session or the network.
type Event interface {
	eventName() string
}

// User-initiated events.

type EvGoAccountCreation struct{}

type EvGoForgotPassword struct{}

type EvSubmitCredentials struct {
	Username string
	Password string
}

type EvSubmitAccountForm struct {
	Username string
	Password string
	Confirm  string
	Email    string
	Name     string
}

// EvCancel backs out of the current flow: account creation and every
// forgot-password stage return to login, classification returns to the
// patient list.
type EvCancel struct{}

type EvSubmitResetEmail struct {
	Email string
}

type EvSubmitResetCode struct {
	Digits []string
}

type EvSubmitNewPassword struct {
	Password string
	Confirm  string
}

type EvRefreshPatients struct{}

type EvSearchPatients struct {
	Column string
	Query  string
}

type EvSelectPatient struct {
	RefID     string
	PatientID string
}

type EvSelectImage struct {
	Index int
	Count int // images available in the current detail
}

type EvSubmitClassification struct {
	HasSelection bool
}

type EvSignOut struct{}

// Gateway outcomes, fed back into the machine by the driver.

type EvSignInOK struct {
	Username    string
	DisplayName string
}

// EvSignInDenied is the success=false soft failure: a normal outcome, the
// view stays put and the inputs are preserved for retry.
type EvSignInDenied struct{}

type EvAccountCreated struct{}

type EvAccountTaken struct{}

type EvResetEmailAccepted struct{}

type EvResetEmailDenied struct{}

type EvDetailLoaded struct{}

type EvClassified struct{}

func (EvGoAccountCreation) eventName() string    { return "go_account_creation" }
func (EvGoForgotPassword) eventName() string     { return "go_forgot_password" }
func (EvSubmitCredentials) eventName() string    { return "submit_credentials" }
func (EvSubmitAccountForm) eventName() string    { return "submit_account_form" }
func (EvCancel) eventName() string               { return "cancel" }
func (EvSubmitResetEmail) eventName() string     { return "submit_reset_email" }
func (EvSubmitResetCode) eventName() string      { return "submit_reset_code" }
func (EvSubmitNewPassword) eventName() string    { return "submit_new_password" }
func (EvRefreshPatients) eventName() string      { return "refresh_patients" }
func (EvSearchPatients) eventName() string       { return "search_patients" }
func (EvSelectPatient) eventName() string        { return "select_patient" }
func (EvSelectImage) eventName() string          { return "select_image" }
func (EvSubmitClassification) eventName() string { return "submit_classification" }
func (EvSignOut) eventName() string              { return "sign_out" }
func (EvSignInOK) eventName() string             { return "sign_in_ok" }
func (EvSignInDenied) eventName() string         { return "sign_in_denied" }
func (EvAccountCreated) eventName() string       { return "account_created" }
func (EvAccountTaken) eventName() string         { return "account_taken" }
func (EvResetEmailAccepted) eventName() string   { return "reset_email_accepted" }
func (EvResetEmailDenied) eventName() string     { return "reset_email_denied" }
func (EvDetailLoaded) eventName() string         { return "detail_loaded" }
func (EvClassified) eventName() string           { return "classified" }

// Effect is a side effect the driver must execute after a transition. The
// pure table only names them.
type Effect int

const (
	FxSignIn Effect = iota
	FxCreateAccount
	FxRequestReset
	FxListPatients
	FxFilterPatients
	FxLoadDetail
	FxRecordSelection
	FxClassify
	FxPublishSignedIn
	FxPublishPatientSelected
	FxClearReset
	FxClearSelection
	FxClearUser
)
