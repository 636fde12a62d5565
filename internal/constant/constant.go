package constant

// View names. The navigator guarantees a session is in exactly one of these
// at any time.
const (
	ViewLogin                 = "login"
	ViewAccountCreation       = "account_creation"
	ViewForgotPasswordRequest = "forgot_password_request"
	ViewForgotPasswordVerify  = "forgot_password_verify"
	ViewForgotPasswordReset   = "forgot_password_reset"
	ViewPatientList           = "patient_list"
	ViewClassification        = "classification"
)

// Pub/sub topics for the edge-triggered refresh signals. A transition
// publishes once per edge; the refresher consumes each message exactly once,
// so a dependent view can never double-process a signal that is already at
// its target value.
const (
	TopicSignedIn        = "session.signed_in"
	TopicPatientSelected = "patient.selected"
)
