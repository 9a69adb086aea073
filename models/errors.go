// ABOUTME: Sentinel errors and validation errors shared across packages
// ABOUTME: Callers match them with errors.Is / errors.As
package models

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrMalformedImport = errors.New("malformed import file")
)

// ValidationError is an inline form error. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Validate checks the fields a contact form requires.
func (c Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "First name is required"}
	}
	if strings.TrimSpace(c.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "Last name is required"}
	}
	return nil
}

// Validate checks the fields an interaction form requires.
func (i Interaction) Validate() error {
	if strings.TrimSpace(i.ContactID) == "" {
		return &ValidationError{Field: "contactId", Message: "Please select a contact"}
	}
	if strings.TrimSpace(i.Notes) == "" {
		return &ValidationError{Field: "notes", Message: "Please add some notes about this interaction"}
	}
	if strings.TrimSpace(i.Date) == "" {
		return &ValidationError{Field: "date", Message: "Date is required"}
	}
	if !i.Type.Valid() {
		return &ValidationError{Field: "type", Message: "Unknown interaction type: " + string(i.Type)}
	}
	return nil
}
