package enums

import "fmt"

// TokenPurpose distinguishes the single-use tokens stored against a user.
type TokenPurpose string

const (
	TokenPurposeVerification  TokenPurpose = "verification"
	TokenPurposePasswordReset TokenPurpose = "password_reset"
)

var validTokenPurposes = []TokenPurpose{
	TokenPurposeVerification,
	TokenPurposePasswordReset,
}

// String implements fmt.Stringer.
func (p TokenPurpose) String() string {
	return string(p)
}

// IsValid reports whether the value is a known TokenPurpose.
func (p TokenPurpose) IsValid() bool {
	for _, candidate := range validTokenPurposes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseTokenPurpose converts raw input into a TokenPurpose.
func ParseTokenPurpose(value string) (TokenPurpose, error) {
	for _, candidate := range validTokenPurposes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid token purpose %q", value)
}
