package counselor

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrCounselorNotFound = errors.New("Counselor not found")
	ErrUsernameRequired  = errors.New("Counselor username is required")
	ErrUsernameTaken     = errors.New("Counselor username already exists")
)
