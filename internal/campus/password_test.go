package campus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pw   string
		want string
	}{
		{"", "Password must be at least 8 characters long."},
		{"Ab1!", "Password must be at least 8 characters long."},
		{"Ab1!éé", "Password must be at least 8 characters long."},
		{"Ab1!éééé", ""},
		{"passw0rd!", "Password must contain at least one uppercase letter (A-Z)."},
		{"PASSW0RD!", "Password must contain at least one lowercase letter (a-z)."},
		{"Password!", "Password must contain at least one number (0-9)."},
		{"Passw0rdd", "Password must contain at least one special character (!@#$%^&*)."},
		{"Passw0rd!", ""},
		{"Passw0rd?", ""},
		{"Xy9" + strings.Repeat("z", 5) + "<", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidatePassword(tc.pw), "password %q", tc.pw)
	}
}

func TestValidatePasswordFirstFailureWins(t *testing.T) {
	// short and missing everything else: length is reported
	assert.Equal(t, "Password must be at least 8 characters long.", ValidatePassword("abc"))
	// long enough but all lowercase: uppercase is reported before digit and special
	assert.Equal(t, "Password must contain at least one uppercase letter (A-Z).", ValidatePassword("abcdefgh"))
}
