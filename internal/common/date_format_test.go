package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISO8601(t *testing.T) {
	got, err := ParseISO8601("2020-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"", "2020-3-15", "15/03/2020", "2020-03-15T00:00:00Z"} {
		_, err := ParseISO8601(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseISO8601TimeAcceptsBothForms(t *testing.T) {
	instant, err := ParseISO8601Time("2021-06-01T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 1, 12, 30, 0, 0, time.UTC), instant)

	date, err := ParseISO8601Time("2021-06-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseISO8601Time("")
	assert.Error(t, err)
}

func TestFormatRoundTrip(t *testing.T) {
	in := time.Date(2021, 6, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "2021-06-01", FormatISO8601(in))
	assert.Equal(t, "2021-06-01T12:30:00Z", FormatISO8601Time(in))
	assert.Equal(t, "Jun 01, 2021", FormatDisplay(in))

	parsed, err := ParseISO8601Time(FormatISO8601Time(in))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(in))
}

func TestValidateISO8601(t *testing.T) {
	assert.True(t, ValidateISO8601("2020-01-01"))
	assert.False(t, ValidateISO8601("not a date"))
	assert.False(t, ValidateISO8601(""))
}
