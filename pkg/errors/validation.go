package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds element identifiers read from external input.
const maxIDLength = 1024

// ValidateID validates an element identifier coming from an external source
// (event logs, snapshots, position files, HTTP paths).
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of 1024 bytes
//
// The in-memory graph itself accepts any string; readers call this before
// driving the mutation API so bad input is reported with a line or record.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "identifier too long (max %d bytes)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "identifier contains invalid control characters")
		}
	}

	return nil
}

// ValidateAttributeKey validates an attribute name from external input.
// Keys follow the identifier rules and additionally may not contain whitespace,
// which keeps them addressable in position files and DOT output.
func ValidateAttributeKey(key string) error {
	if err := ValidateID(key); err != nil {
		return New(ErrCodeIllegalAttribute, "invalid attribute key: %s", UserMessage(err))
	}
	if strings.ContainsFunc(key, unicode.IsSpace) {
		return New(ErrCodeIllegalAttribute, "attribute key %q contains whitespace", key)
	}
	return nil
}
