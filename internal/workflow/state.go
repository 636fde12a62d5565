package workflow

import (
	"dermoscan-be/internal/constant"
	"dermoscan-be/pkg/validate"
)

// Transition is the navigator's pure core: given the visible view and an
// event it returns the next view and the effects the driver must run. It
// performs no I/O. Validation always runs before any effect is emitted, so
// a guard failure can never cost a network round trip.
//
// Gateway calls keep the view unchanged until their outcome is fed back in
// as its own event; the view only moves on the outcome.
func Transition(view string, ev Event) (string, []Effect, error) {
	switch view {

	case constant.ViewLogin:
		switch e := ev.(type) {
		case EvGoAccountCreation:
			return constant.ViewAccountCreation, nil, nil
		case EvGoForgotPassword:
			return constant.ViewForgotPasswordRequest, nil, nil
		case EvSubmitCredentials:
			if !validate.NonEmpty(e.Username) {
				return view, nil, invalid("username", "Please enter a username")
			}
			if !validate.NonEmpty(e.Password) {
				return view, nil, invalid("password", "Please enter a password")
			}
			return view, []Effect{FxSignIn}, nil
		case EvSignInOK:
			return constant.ViewPatientList, []Effect{FxPublishSignedIn, FxListPatients}, nil
		case EvSignInDenied:
			return view, nil, nil
		}

	case constant.ViewAccountCreation:
		switch e := ev.(type) {
		case EvSubmitAccountForm:
			for _, f := range []struct{ field, value, reason string }{
				{"username", e.Username, "Please enter a username"},
				{"password", e.Password, "Please enter a password"},
				{"confirm_password", e.Confirm, "Please confirm your password"},
				{"email", e.Email, "Please enter an email address"},
				{"name", e.Name, "Please enter your name"},
			} {
				if !validate.NonEmpty(f.value) {
					return view, nil, invalid(f.field, f.reason)
				}
			}
			if !validate.PasswordsMatch(e.Password, e.Confirm) {
				return view, nil, invalid("confirm_password", "Passwords do not match")
			}
			if !validate.Email(e.Email) {
				return view, nil, invalid("email", "Please enter a valid email address")
			}
			return view, []Effect{FxCreateAccount}, nil
		case EvAccountCreated:
			return constant.ViewLogin, nil, nil
		case EvAccountTaken:
			return view, nil, nil
		case EvCancel:
			return constant.ViewLogin, nil, nil
		}

	case constant.ViewForgotPasswordRequest:
		switch e := ev.(type) {
		case EvSubmitResetEmail:
			if !validate.NonEmpty(e.Email) {
				return view, nil, invalid("email", "Please enter an email address")
			}
			if !validate.Email(e.Email) {
				return view, nil, invalid("email", "Please enter a valid email address")
			}
			return view, []Effect{FxRequestReset}, nil
		case EvResetEmailAccepted:
			return constant.ViewForgotPasswordVerify, nil, nil
		case EvResetEmailDenied:
			return view, nil, nil
		case EvCancel:
			return constant.ViewLogin, []Effect{FxClearReset}, nil
		}

	case constant.ViewForgotPasswordVerify:
		switch e := ev.(type) {
		case EvSubmitResetCode:
			if _, ok := validate.AssembleCode(e.Digits); !ok {
				return view, nil, invalid("code", "Please enter the full verification code")
			}
			// The login service exposes no code-validation endpoint; the
			// collected code is carried forward unchecked.
			return constant.ViewForgotPasswordReset, nil, nil
		case EvCancel:
			return constant.ViewLogin, []Effect{FxClearReset}, nil
		}

	case constant.ViewForgotPasswordReset:
		switch e := ev.(type) {
		case EvSubmitNewPassword:
			if !validate.NonEmpty(e.Password) {
				return view, nil, invalid("password", "Please enter a new password")
			}
			if !validate.NonEmpty(e.Confirm) {
				return view, nil, invalid("confirm_password", "Please confirm your new password")
			}
			if !validate.PasswordsMatch(e.Password, e.Confirm) {
				return view, nil, invalid("confirm_password", "Passwords do not match")
			}
			return constant.ViewLogin, []Effect{FxClearReset}, nil
		case EvCancel:
			return constant.ViewLogin, []Effect{FxClearReset}, nil
		}

	case constant.ViewPatientList:
		switch e := ev.(type) {
		case EvRefreshPatients:
			return view, []Effect{FxListPatients}, nil
		case EvSearchPatients:
			if !validate.NonEmpty(e.Query) {
				return view, nil, invalid("query", "Please enter a search term")
			}
			return view, []Effect{FxFilterPatients}, nil
		case EvSelectPatient:
			return view, []Effect{FxLoadDetail}, nil
		case EvDetailLoaded:
			return constant.ViewClassification, []Effect{FxPublishPatientSelected}, nil
		case EvSignOut:
			return constant.ViewLogin, []Effect{FxClearSelection, FxClearUser}, nil
		}

	case constant.ViewClassification:
		switch e := ev.(type) {
		case EvSelectImage:
			if e.Index < 0 || e.Index >= e.Count {
				return view, nil, invalid("index", "Selected image does not exist")
			}
			return view, []Effect{FxRecordSelection}, nil
		case EvSubmitClassification:
			if !e.HasSelection {
				return view, nil, invalid("image", "Please select an image to classify")
			}
			return view, []Effect{FxClassify}, nil
		case EvClassified:
			return view, nil, nil
		case EvCancel:
			return constant.ViewPatientList, []Effect{FxClearSelection}, nil
		case EvSignOut:
			return constant.ViewLogin, []Effect{FxClearSelection, FxClearUser}, nil
		}
	}

	return view, nil, &InvalidTransitionError{View: view, Event: ev.eventName()}
}
