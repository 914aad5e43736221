package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Limits of an estimated time value: NUMERIC(5,2).
const (
	HoursMaxDigits      = 5
	HoursDecimalPlaces  = 2
	HoursMaxWholeDigits = HoursMaxDigits - HoursDecimalPlaces
	hoursScale          = 100
)

var (
	ErrHoursInvalid         = errors.New("not a valid decimal number")
	ErrHoursTooManyDigits   = errors.New("too many digits in total")
	ErrHoursTooManyDecimals = errors.New("too many decimal places")
	ErrHoursTooManyWhole    = errors.New("too many digits before the decimal point")
)

// Hours is a fixed-point decimal with two fractional digits, stored in hundredths.
type Hours int64

// HoursFromCents builds an Hours value from a count of hundredths.
func HoursFromCents(cents int64) Hours {
	return Hours(cents)
}

// ParseHours parses a plain decimal literal such as "2", "-0.5" or "999.99".
// Exponents, NaN and infinities are rejected. Precision is never rounded away:
// input with more than two fractional digits fails.
func ParseHours(s string) (Hours, error) {
	s = strings.TrimSpace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if (whole == "" && frac == "") || !allDigits(whole) || !allDigits(frac) {
		return 0, ErrHoursInvalid
	}

	whole = strings.TrimLeft(whole, "0")
	switch {
	case len(whole)+len(frac) > HoursMaxDigits:
		return 0, ErrHoursTooManyDigits
	case len(frac) > HoursDecimalPlaces:
		return 0, ErrHoursTooManyDecimals
	case len(whole) > HoursMaxWholeDigits:
		return 0, ErrHoursTooManyWhole
	}

	var cents int64
	if whole != "" {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, ErrHoursInvalid
		}
		cents = w * hoursScale
	}
	if frac != "" {
		f, err := strconv.ParseInt(frac+strings.Repeat("0", HoursDecimalPlaces-len(frac)), 10, 64)
		if err != nil {
			return 0, ErrHoursInvalid
		}
		cents += f
	}
	if neg {
		cents = -cents
	}
	return Hours(cents), nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Cents returns the value in hundredths.
func (h Hours) Cents() int64 { return int64(h) }

// Float64 returns an approximate float value.
func (h Hours) Float64() float64 { return float64(h) / hoursScale }

// String renders h with exactly two fractional digits.
func (h Hours) String() string {
	v := int64(h)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/hoursScale, v%hoursScale)
}

func (h Hours) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON accepts both a JSON string and a JSON number.
func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	parsed, err := ParseHours(raw)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
