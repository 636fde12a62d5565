package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailAccepts(t *testing.T) {
	valid := []string{
		"doc1@hosp.org",
		"a@b.com",
		"first.last@clinic.net",
		"a@b@c.com", // loose local part: only the tail has to resolve
		"UPPER@CASE.com",
	}
	for _, s := range valid {
		assert.True(t, Email(s), "expected %q to be accepted", s)
	}
}

func TestEmailRejects(t *testing.T) {
	invalid := []string{
		"",
		"plainaddress",
		"@no-local.com",
		"no-at-sign.com",
		"user@domain",
		"user@domain.io",   // tld not in the accepted set
		"user@domain.co.uk",
		"user@ spaced.com",
		"user@domain.comx",
	}
	for _, s := range invalid {
		assert.False(t, Email(s), "expected %q to be rejected", s)
	}
}

func TestNonEmpty(t *testing.T) {
	assert.False(t, NonEmpty(""))
	assert.True(t, NonEmpty(" "))
	assert.True(t, NonEmpty("x"))
}

func TestPasswordsMatch(t *testing.T) {
	assert.True(t, PasswordsMatch("Abc123", "Abc123"))
	assert.False(t, PasswordsMatch("Abc123", "abc123"))
	assert.False(t, PasswordsMatch("Abc123", ""))
}

func TestHashPassword(t *testing.T) {
	// SHA-256("Abc123"), hex encoded.
	got := HashPassword("Abc123")
	assert.Equal(t, "7f91e8a4b648b0125b15dc5a3b6466f9f4906d92c72bea9bd6be92c853bebda2", got)
	assert.Len(t, got, 64)
	assert.NotEqual(t, HashPassword("a"), HashPassword("b"))
}

func TestAssembleCode(t *testing.T) {
	code, ok := AssembleCode([]string{"1", "2", "3", "4"})
	assert.True(t, ok)
	assert.Equal(t, "1234", code)

	_, ok = AssembleCode([]string{"1", "", "3", "4"})
	assert.False(t, ok)

	_, ok = AssembleCode([]string{"1", "x", "3", "4"})
	assert.False(t, ok)

	_, ok = AssembleCode([]string{"12", "3"})
	assert.False(t, ok)

	_, ok = AssembleCode(nil)
	assert.False(t, ok)
}

func TestAssembleCodeRequiresExactLength(t *testing.T) {
	// All-digit slices of the wrong length must not assemble; the DTO tag
	// is not the only gatekeeper.
	_, ok := AssembleCode([]string{"1", "2"})
	assert.False(t, ok)

	_, ok = AssembleCode([]string{"1", "2", "3"})
	assert.False(t, ok)

	_, ok = AssembleCode([]string{"1", "2", "3", "4", "5"})
	assert.False(t, ok)
}
