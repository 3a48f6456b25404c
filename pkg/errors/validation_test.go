package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "A", false},
		{"with dash", "node-1", false},
		{"with space", "my node", false},
		{"unicode", "nœud", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 2000), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateAttributeKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "x", false},
		{"dotted", "ui.label", false},
		{"empty", "", true},
		{"space", "my key", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttributeKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttributeKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeIllegalAttribute) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeIllegalAttribute)
			}
		})
	}
}
