package transport

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fastygo/tasks/domain"
)

// Field-level messages returned to clients.
const (
	msgNotString     = "Not a valid string."
	msgNotNull       = "This field may not be null."
	msgDateFormat    = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	msgInvalidNumber = "A valid number is required."
	msgMaxDigits     = "Ensure that there are no more than 5 digits in total."
	msgMaxDecimals   = "Ensure that there are no more than 2 decimal places."
	msgMaxWhole      = "Ensure that there are no more than 3 digits before the decimal point."
	msgMaxLength     = "Ensure this field has no more than %s characters."
)

var null = []byte("null")

// decodeObject turns a request body into raw JSON values keyed by field
// name. An empty body is an empty object.
func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	verr := domain.NewValidationError()
	if !json.Valid(trimmed) {
		verr.Add(domain.NonFieldErrors, "JSON parse error.")
		return nil, verr
	}
	if trimmed[0] != '{' {
		verr.Add(domain.NonFieldErrors, "Invalid data. Expected an object, but got "+jsonKind(trimmed[0])+".")
		return nil, verr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		verr.Add(domain.NonFieldErrors, "JSON parse error.")
		return nil, verr
	}
	return raw, nil
}

func jsonKind(first byte) string {
	switch first {
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), null)
}

// readString decodes a nullable text field. Surrounding whitespace is trimmed.
func readString(verr *domain.ValidationError, field string, v json.RawMessage) *string {
	if isNull(v) {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		verr.Add(field, msgNotString)
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

// readDate decodes a required YYYY-MM-DD field.
func readDate(verr *domain.ValidationError, field string, v json.RawMessage) (domain.Date, bool) {
	if isNull(v) {
		verr.Add(field, msgNotNull)
		return domain.Date{}, false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		verr.Add(field, msgDateFormat)
		return domain.Date{}, false
	}
	d, err := domain.ParseDate(strings.TrimSpace(s))
	if err != nil {
		verr.Add(field, msgDateFormat)
		return domain.Date{}, false
	}
	return d, true
}

// readHours decodes a nullable decimal given either as a string or a number.
func readHours(verr *domain.ValidationError, field string, v json.RawMessage) *domain.Hours {
	if isNull(v) {
		return nil
	}
	trimmed := bytes.TrimSpace(v)
	literal := string(trimmed)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '"':
		if err := json.Unmarshal(trimmed, &literal); err != nil {
			verr.Add(field, msgInvalidNumber)
			return nil
		}
	case len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')):
	default:
		verr.Add(field, msgInvalidNumber)
		return nil
	}

	h, err := domain.ParseHours(literal)
	if err != nil {
		verr.Add(field, hoursMessage(err))
		return nil
	}
	return &h
}

func hoursMessage(err error) string {
	switch err {
	case domain.ErrHoursTooManyDigits:
		return msgMaxDigits
	case domain.ErrHoursTooManyDecimals:
		return msgMaxDecimals
	case domain.ErrHoursTooManyWhole:
		return msgMaxWhole
	default:
		return msgInvalidNumber
	}
}
