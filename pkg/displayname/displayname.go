// Package displayname holds the naming rule shared by users and stores.
package displayname

import (
	"strings"

	pkgerrors "github.com/shaheen-amjed/shodix-api/pkg/errors"
)

// MaxLength bounds stored display names.
const MaxLength = 64

// forbidden lists every character a display name may not contain.
const forbidden = " !@#$%^&*(){}]/"

// Valid reports whether name is non-empty, short enough and free of forbidden characters.
func Valid(name string) bool {
	if name == "" || len(name) > MaxLength {
		return false
	}
	return !strings.ContainsAny(name, forbidden)
}

// Validate returns a validation error naming the offending field.
func Validate(field, name string) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" is required").
			WithDetails(map[string]string{field: "is required"})
	}
	if len(name) > MaxLength {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" is too long").
			WithDetails(map[string]string{field: "is too long"})
	}
	if idx := strings.IndexAny(name, forbidden); idx >= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, field+" contains a forbidden character").
			WithDetails(map[string]string{field: "must not contain " + quoteChar(name[idx])})
	}
	return nil
}

func quoteChar(c byte) string {
	if c == ' ' {
		return "spaces"
	}
	return "'" + string(c) + "'"
}
