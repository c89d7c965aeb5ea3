package model

import "fmt"

// InvalidInputError reports an input that makes a simulation impossible,
// such as a profile with the wrong length or a negative capacity. Callers
// must not proceed after receiving it.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}
