package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCategory = errors.New("unknown event category")
	ErrUnknownTier     = errors.New("unknown sponsor tier")
	ErrUnknownSite     = errors.New("unknown site")
	ErrInvalidDate     = errors.New("invalid event date")
)

// UnknownValueError carries the rejected value and matches its sentinel
// through errors.Is.
type UnknownValueError struct {
	Kind     string
	Value    string
	sentinel error
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("%s %q is not recognised", e.Kind, e.Value)
}

func (e *UnknownValueError) Is(target error) bool {
	return target == e.sentinel
}
