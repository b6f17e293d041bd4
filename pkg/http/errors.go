package http

import "fmt"

// AppError is one machine-readable error inside the response envelope. Status
// travels out of band on the HTTP line, never in the body.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

// NewAppError creates an application error bound to an HTTP status.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Field:   field,
		Message: message,
		Status:  status,
	}
}

// WithError attaches the underlying cause.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
