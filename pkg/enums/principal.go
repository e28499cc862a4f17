package enums

import "fmt"

// PrincipalKind names the two kinds of account that can hold a token.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalStore PrincipalKind = "store"
)

var validPrincipalKinds = []PrincipalKind{
	PrincipalUser,
	PrincipalStore,
}

// String implements fmt.Stringer.
func (p PrincipalKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalKind.
func (p PrincipalKind) IsValid() bool {
	for _, candidate := range validPrincipalKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrincipalKind converts raw input into a PrincipalKind.
func ParsePrincipalKind(value string) (PrincipalKind, error) {
	for _, candidate := range validPrincipalKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal kind %q", value)
}
