package billing

import "fmt"

// InvalidTermError reports a malformed lease billing term. It is returned
// before any calendar generation or reconciliation takes place.
type InvalidTermError struct {
	LeaseID string
	Reason  string
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("invalid billing term for lease %s: %s", e.LeaseID, e.Reason)
}

// MissingTermsError reports an operation that requires billing terms on a
// lease that has none (e.g. activating a lease with no monthly rent).
type MissingTermsError struct {
	LeaseID string
	Field   string
}

func (e *MissingTermsError) Error() string {
	return fmt.Sprintf("lease %s is missing required billing term %q", e.LeaseID, e.Field)
}
