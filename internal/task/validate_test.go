package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCCCP_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want CCCP
	}{
		{"5A", CCCP{Value: 5, Unit: UnitAmpere}},
		{"10.5W", CCCP{Value: 10.5, Unit: UnitWatt}},
		{"10.5w", CCCP{Value: 10.5, Unit: UnitWatt}},
		{" 2a ", CCCP{Value: 2, Unit: UnitAmpere}},
		{"0A", CCCP{Value: 0, Unit: UnitAmpere}},
		{"1000W", CCCP{Value: 1000, Unit: UnitWatt}},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ValidateCCCP(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateCCCP_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrEmptyInput},
		{"blank", "   ", ErrEmptyInput},
		{"no suffix", "5", ErrBadSuffix},
		{"wrong suffix", "5X", ErrBadSuffix},
		{"suffix only", "A", ErrBadNumber},
		{"not a number", "abcW", ErrBadNumber},
		{"negative", "-5A", ErrBadNumber},
		{"exponent", "1e3W", ErrBadNumber},
		{"trailing dot", "5.A", ErrBadNumber},
		{"double unit", "5AW", ErrBadNumber},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateCCCP(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCCCP_String(t *testing.T) {
	assert.Equal(t, "10.5W", CCCP{Value: 10.5, Unit: UnitWatt}.String())
	assert.Equal(t, "5A", CCCP{Value: 5, Unit: UnitAmpere}.String())
}

func TestErrorKind(t *testing.T) {
	_, err := ValidateCCCP("5X")
	assert.Equal(t, "bad_suffix", ErrorKind(err))

	_, err = ValidateCCCP("")
	assert.Equal(t, "empty_input", ErrorKind(err))

	_, err = ValidateCCCP("xA")
	assert.Equal(t, "bad_number", ErrorKind(err))

	assert.Equal(t, "invalid_duration", ErrorKind(FieldError{Field: "time_seconds", Err: ErrInvalidDuration}))
	assert.Equal(t, "unknown_task_type", ErrorKind(FieldError{Field: "task_type", Err: ErrUnknownType}))
	assert.Equal(t, "unknown", ErrorKind(assert.AnError))
}
