package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the user-input taxonomy. All of them terminate the
// run; none are retried. Callers wrap them with the offending name via
// fmt.Errorf("%w: %s", ...) and match with errors.Is.
var (
	ErrUnknownAnalysis  = errors.New("unknown analysis")
	ErrUnknownExtension = errors.New("unknown extension")
	ErrUnknownQueue     = errors.New("unknown queue")
	ErrStudyExists      = errors.New("study already exists")
	ErrNoInputFiles     = errors.New("no input files")
)

// ValidationError is one field-level configuration problem.
type ValidationError struct {
	FieldPath string
	Message   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldPath, e.Message)
}

// ValidationErrors collects every configuration problem before failing,
// so a broken config reports all of its defects in one pass.
type ValidationErrors struct {
	Errors []ValidationError
}

func (ve *ValidationErrors) Add(fieldPath, message string) {
	ve.Errors = append(ve.Errors, ValidationError{FieldPath: fieldPath, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}
