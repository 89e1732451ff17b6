package lead

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrLeadNotFound       = errors.New("Lead not found")
	ErrDuplicateLead      = errors.New("a lead with this id already exists")
	ErrPhoneRequired      = errors.New("Phone number is required")
	ErrPhoneNotRegistered = errors.New("Phone number not registered")
	ErrInvalidStudentID   = errors.New("Invalid student ID: must be a number")
	ErrDocumentNotFound   = errors.New("Document not found")
	ErrFileNotFound       = errors.New("File not found on server")
	ErrConcurrentUpdate   = errors.New("lead was updated by another request, please retry")
)
