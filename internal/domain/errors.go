package domain

import "errors"

// Error taxonomy shared by the catalog service and its transport.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrStoreFailure = errors.New("store failure")
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// InputError is an ErrInvalidInput carrying the offending fields
type InputError struct {
	Fields []FieldError
}

// NewInputError builds an InputError for a single field
func NewInputError(field, message string) *InputError {
	return &InputError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *InputError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	msg := ErrInvalidInput.Error() + ": "
	for i, f := range e.Fields {
		if i > 0 {
			msg += "; "
		}
		msg += f.Field + " " + f.Message
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}
