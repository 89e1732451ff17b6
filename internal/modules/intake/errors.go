package intake

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsernameRequired  = errors.New("Counselor username is required")
	ErrLeadNotFound      = errors.New("Lead not found")
	ErrCounselorNotFound = errors.New("Counselor not found")
	ErrConcurrentUpdate  = errors.New("lead was updated by another request, please retry")
	ErrUnavailable       = errors.New("failed to upload documents")
)

// MissingDocumentsError lists the required categories a batch did not
// cover, in required order.
type MissingDocumentsError struct {
	Missing []string
}

func (e *MissingDocumentsError) Error() string {
	return "Missing required documents: " + strings.Join(e.Missing, ", ")
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
