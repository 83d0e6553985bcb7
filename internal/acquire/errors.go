package acquire

import "fmt"

// NotFoundError indicates the page yielded no title: either the identifier
// does not exist or the source blocked the request. The two cases are not
// distinguishable from the response and are deliberately not disambiguated.
type NotFoundError struct {
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("listing not found: %s", e.Identifier)
}

// AcquisitionError represents a transport or automation failure during
// acquisition: launch failure, navigation timeout, extraction error.
type AcquisitionError struct {
	Message string
	Cause   error
}

func (e *AcquisitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("acquisition error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("acquisition error: %s", e.Message)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Cause
}
