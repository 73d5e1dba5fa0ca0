package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		email      string
		username   string
		password   string
		wantFields []string
	}{
		{"valid", "a@x.com", "alice", "password1", nil},
		{"all missing", "", "", "", []string{"email", "username", "password"}},
		{"bad email", "not-an-email", "alice", "password1", []string{"email"}},
		{"short username", "a@x.com", "ab", "password1", []string{"username"}},
		{"username with @", "a@x.com", "al@ce", "password1", []string{"username"}},
		{"short password", "a@x.com", "alice", "pw", []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRegister(tt.email, tt.username, tt.password)
			assert.Equal(t, len(tt.wantFields) > 0, errs.HasErrors())
			for _, field := range tt.wantFields {
				assert.Contains(t, errs, field)
			}
			assert.Len(t, errs, len(tt.wantFields))
		})
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	assert.False(t, ValidateLogin("a@x.com", "pw").HasErrors())
	// Identifier may be a bare username; no email shape enforced.
	assert.False(t, ValidateLogin("alice", "pw").HasErrors())
	assert.True(t, ValidateLogin("", "pw").HasErrors())
	assert.True(t, ValidateLogin("alice", "").HasErrors())
}
