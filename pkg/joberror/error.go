package joberror

import "errors"

// Error represents a structured job error tied to a run stage.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches a cause to the error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// Config creates a configuration error. Fatal before any side effect.
func Config(message string) *Error {
	if message == "" {
		message = "Error reading configuration"
	}
	return &Error{Code: "CONFIG", Message: message}
}

// Query creates a data source error. Fatal for the run.
func Query(message string) *Error {
	if message == "" {
		message = "Error querying the database"
	}
	return &Error{Code: "QUERY", Message: message}
}

// InvalidSku creates a per-item sku format error.
func InvalidSku(sku string) *Error {
	return &Error{Code: "INVALID_SKU", Message: "Invalid SKU format: " + sku}
}

// LookupNotFound creates a per-item missing component error.
func LookupNotFound(sku string) *Error {
	return &Error{Code: "LOOKUP_NOT_FOUND", Message: "Component not found: " + sku}
}

// Delivery creates a chat delivery error. Logged, never raised past the runner.
func Delivery(message string) *Error {
	if message == "" {
		message = "Error delivering notification"
	}
	return &Error{Code: "DELIVERY", Message: message}
}

// IsCode reports whether err is a job error carrying the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
