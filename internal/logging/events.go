package logging

// Audit event names emitted by the services layer. They are used as the log
// message so downstream collectors can filter on msg alone.
const (
	EventUserRegistered    = "user_registered"
	EventDuplicateUsername = "duplicate_username"
	EventApprovalDenied    = "approval_denied"
	EventLoginSuccess      = "login_success"
	EventLoginFailure      = "login_failure"
	EventStoreError        = "store_error"
)

// Failure reasons attached to EventLoginFailure under the "reason" key.
const (
	ReasonUserNotFound  = "user_not_found"
	ReasonWrongPassword = "wrong_password"
)
