package services

import "github.com/dmitrijs2005/credkeeper/internal/common"

// RegistrationResult is the outcome of Registrar.AddUser when the store
// itself did not fail.
type RegistrationResult int

const (
	Registered RegistrationResult = iota + 1
	UsernameTaken
	ApprovalDenied
)

func (r RegistrationResult) String() string {
	switch r {
	case Registered:
		return "registered"
	case UsernameTaken:
		return "username_taken"
	case ApprovalDenied:
		return "approval_denied"
	default:
		return "unknown"
	}
}

// Err maps the outcome to a sentinel error, nil for Registered.
func (r RegistrationResult) Err() error {
	switch r {
	case Registered:
		return nil
	case UsernameTaken:
		return common.ErrUsernameTaken
	case ApprovalDenied:
		return common.ErrApprovalDenied
	default:
		return common.ErrorInternal
	}
}

// VerificationResult is the outcome of Authenticator.Verify when the store
// itself did not fail.
type VerificationResult int

const (
	Success VerificationResult = iota + 1
	UserNotFound
	WrongPassword
)

func (r VerificationResult) String() string {
	switch r {
	case Success:
		return "success"
	case UserNotFound:
		return "user_not_found"
	case WrongPassword:
		return "wrong_password"
	default:
		return "unknown"
	}
}

// Err maps the outcome to a sentinel error, nil for Success.
func (r VerificationResult) Err() error {
	switch r {
	case Success:
		return nil
	case UserNotFound:
		return common.ErrUserNotFound
	case WrongPassword:
		return common.ErrWrongPassword
	default:
		return common.ErrorInternal
	}
}
