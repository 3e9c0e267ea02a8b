package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across repositories, the provisioner and services.
// Handlers translate these into HTTP status codes.
var (
	ErrValidation         = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrHashing            = errors.New("hashing failed")

	ErrSchemaProvisioning = errors.New("schema provisioning failed")
	ErrSchemaRename       = errors.New("schema rename failed")
	ErrSchemaNotFound     = errors.New("schema not found")
)

// PartialFailureError reports that an operation failed AND the compensating
// cleanup failed too, leaving storage in an inconsistent state that requires
// operator intervention. It must stay distinguishable from ordinary errors
// in logs and status reporting.
type PartialFailureError struct {
	Op         string
	Cause      error
	CleanupErr error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: %v (compensating cleanup also failed: %v)", e.Op, e.Cause, e.CleanupErr)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Cause
}

// IsPartialFailure reports whether err carries a failed compensation.
func IsPartialFailure(err error) bool {
	var pf *PartialFailureError
	return errors.As(err, &pf)
}
