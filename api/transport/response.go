package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// NewSuccess returns an envelope carrying data.
func NewSuccess(message string, data interface{}) Envelope {
	return Envelope{Message: message, Data: data}
}

// NewMessage returns an envelope with only a message.
func NewMessage(message string) Envelope {
	return Envelope{Message: message}
}

// NewValidationFailure returns an envelope listing per-field problems.
func NewValidationFailure(message string, fields map[string][]string) Envelope {
	return Envelope{Message: message, Errors: fields}
}

// NewFailure returns an envelope exposing the cause of an unexpected error.
func NewFailure(message string, cause error) Envelope {
	env := Envelope{Message: message}
	if cause != nil {
		env.Error = cause.Error()
	}
	return env
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
