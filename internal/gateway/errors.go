package gateway

import (
	"errors"
	"fmt"
)

// ErrConnection marks a transport-level failure reaching a backend: refused
// connection, DNS failure, or the client timeout expiring. The triggering
// workflow step aborts and the session is left untouched.
var ErrConnection = errors.New("backend connection error")

// ServiceError is a non-2xx response that does not match a known soft-failure
// convention. Surfaced to the user the same way as a connection error.
type ServiceError struct {
	Service string
	Status  int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s backend responded with status %d", e.Service, e.Status)
}

func connErr(service string, err error) error {
	return fmt.Errorf("%s: %v: %w", service, err, ErrConnection)
}
