// Package validate holds the pure input checks the workflow runs before any
// backend call. Keeping them free of dependencies makes the guard logic in
// the navigator trivially testable.
package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// The whole address must be local-part, '@', domain, dot, then one of the
// accepted TLDs. The local part is deliberately loose: "a@b@c.com" passes
// as long as the tail resolves to a valid domain.
var emailPattern = regexp.MustCompile(`^.+@[^@\s]+\.(com|net|org)$`)

// NonEmpty reports whether s contains anything at all. No trimming: a
// string of spaces counts as input.
func NonEmpty(s string) bool {
	return s != ""
}

// Email reports whether s looks like local@domain.(com|net|org).
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordsMatch is exact string equality between password and confirmation.
func PasswordsMatch(a, b string) bool {
	return a == b
}

// HashPassword digests the plaintext with SHA-256 over its UTF-8 bytes and
// returns the lowercase hex encoding. Plaintext never leaves the process.
func HashPassword(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// CodeLength is the number of digit slots in a verification code.
const CodeLength = 4

// AssembleCode joins the individually-entered verification digits into one
// code string. It fails unless exactly CodeLength slots are present and
// every slot is a single digit.
func AssembleCode(digits []string) (string, bool) {
	if len(digits) != CodeLength {
		return "", false
	}
	var b strings.Builder
	for _, d := range digits {
		if len(d) != 1 || d[0] < '0' || d[0] > '9' {
			return "", false
		}
		b.WriteString(d)
	}
	return b.String(), true
}
