package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/imgbox/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		userName  string
		email     string
		password  string
		wantField string
	}{
		{"valid", "Ann", "ann@example.com", "password1", ""},
		{"name too short", "A", "ann@example.com", "password1", "name"},
		{"name at min", "Al", "al@example.com", "password1", ""},
		{"name too long", strings.Repeat("n", 256), "ann@example.com", "password1", "name"},
		{"name at max", strings.Repeat("n", 255), "ann@example.com", "password1", ""},
		{"email too short", "Ann", "a@b.c", "password1", "email"},
		{"email too long", "Ann", strings.Repeat("a", 250) + "@x.com", "password1", "email"},
		{"email unparseable", "Ann", "not-an-email", "password1", "email"},
		{"email with display name", "Ann", "Ann <ann@example.com>", "password1", "email"},
		{"password too short", "Ann", "ann@example.com", "short", "password"},
		{"password at min", "Ann", "ann@example.com", "12345678", ""},
		{"password too long", "Ann", "ann@example.com", strings.Repeat("p", 256), "password"},
		{"name checked first", "", "bad", "", "name"},
		{"name invalid utf8", "A\xff\xfe", "ann@example.com", "password1", "name"},
		{"name with NUL", "A\x00", "ann@example.com", "password1", "name"},
		{"email invalid utf8", "Ann", "ann\xff@example.com", "password1", "email"},
		{"email with NUL", "Ann", "ann\x00@example.com", "password1", "email"},
		{"password invalid utf8", "Ann", "ann@example.com", "password\xff", "password"},
		{"password with NUL", "Ann", "ann@example.com", "pass\x00word1", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.userName, tt.email, tt.password)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrorValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
			assert.NotEmpty(t, ve.Reason)
		})
	}
}

func TestValidateRegistration_CountsCharacters(t *testing.T) {
	// 2 characters, 4 bytes
	assert.NoError(t, ValidateRegistration("Žž", "zz@example.com", "password1"))
	// 8 characters, 16 bytes
	assert.NoError(t, ValidateRegistration("Ann", "ann@example.com", "ŠŠŠŠŠŠŠŠ"))
	// 255 characters but 510 bytes
	assert.NoError(t, ValidateRegistration(strings.Repeat("ž", 255), "ann@example.com", "password1"))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Field: "name", Reason: "must be between 2 and 255 characters"}
	assert.Equal(t, "name: must be between 2 and 255 characters", err.Error())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ann@example.com", NormalizeEmail("ANN@Example.com"))
	assert.Equal(t, "ann@example.com", NormalizeEmail("  ann@example.com "))
	assert.Equal(t, NormalizeEmail("Ann@example.com"), NormalizeEmail("aNN@EXAMPLE.COM"))
}
