package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.October, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, "2026-10-15", d.String())

	for _, bad := range []string{"", "15/10/2026", "2026-13-01", "2026-02-30", "2026-10-15T10:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	instant := time.Date(2026, time.October, 15, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-10-15", DateOf(instant).String())
	assert.Equal(t, "2026-10-16", DateOf(instant.In(loc)).String())
}

func TestDateJSON(t *testing.T) {
	out, err := json.Marshal(NewDate(2026, time.January, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-01-02"`, string(out))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-02"`), &d))
	assert.Equal(t, NewDate(2026, time.January, 2), d)

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
