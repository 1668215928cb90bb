package questions

import "fmt"

// LoadError represents an error while decoding or validating a question catalog
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("question bank load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("question bank load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
