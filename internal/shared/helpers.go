// Package shared provides small cross-package helpers used by
// internal/adapters and internal/app: package-name
// normalization and a common errbuilder wrapping convention.
package shared

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// NormalizeName lowercases and trims a package or provides-token name so
// lookups are insensitive to the whitespace and casing differences that
// turn up across deb, rpm, and conda solvable names.
func NormalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// WrapInternal builds the errbuilder.CodeInternal error every adapter
// returns for an I/O or (de)serialization failure: "op: detail: err".
func WrapInternal(op, detail string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(op + ": " + detail + ": " + err.Error())
}

// WrapNotFound builds the errbuilder.CodeNotFound error returned when a
// lookup by key or path comes up empty.
func WrapNotFound(op, detail string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(op + ": " + detail)
}
