package presets

import "fmt"

// LoadError represents an error while decoding or validating the preset table
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("preset load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("preset load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
