package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+96812345678", "+96812345678", true},
		{" +254700000001 ", "+254700000001", true},
		{"+12345678", "+12345678", true},
		{"+123456789012345", "+123456789012345", true},
		{"+1234567", "", false},
		{"+1234567890123456", "", false},
		{"96812345678", "", false},
		{"+9681234567a", "", false},
		{"+968 1234 5678", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, err := ValidatePhone(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			require.Equal(t, tc.want, got)
		} else {
			require.ErrorIs(t, err, ErrInvalidPhone, tc.in)
		}
	}
}
