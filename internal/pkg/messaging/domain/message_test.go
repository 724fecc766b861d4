package messaging

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateContentTrims(t *testing.T) {
	got, err := ValidateContent("  Hello  ")
	if err != nil {
		t.Fatalf("ValidateContent failed: %v", err)
	}
	if got != "Hello" {
		t.Fatalf("expected trimmed content %q, got %q", "Hello", got)
	}
}

func TestValidateContentRejectsWhitespaceOnly(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t  \r\n"} {
		if _, err := ValidateContent(raw); !errors.Is(err, ErrEmptyMessage) {
			t.Fatalf("ValidateContent(%q): expected ErrEmptyMessage, got %v", raw, err)
		}
	}
}

func TestValidateContentLengthCeiling(t *testing.T) {
	atLimit := strings.Repeat("a", MaxMessageLength)
	if _, err := ValidateContent(atLimit); err != nil {
		t.Fatalf("content of exactly %d runes should pass, got %v", MaxMessageLength, err)
	}

	over := strings.Repeat("a", MaxMessageLength+1)
	if _, err := ValidateContent(over); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong for %d runes, got %v", MaxMessageLength+1, err)
	}
}

func TestValidateContentCountsRunesNotBytes(t *testing.T) {
	// 1000 multi-byte runes is at the limit even though it is >1000 bytes.
	content := strings.Repeat("é", MaxMessageLength)
	if _, err := ValidateContent(content); err != nil {
		t.Fatalf("multi-byte content at the rune limit should pass, got %v", err)
	}
}

func TestValidateContentPaddedToLimit(t *testing.T) {
	// Padding does not count against the ceiling: the trimmed form is measured.
	raw := "  " + strings.Repeat("a", MaxMessageLength) + "  "
	got, err := ValidateContent(raw)
	if err != nil {
		t.Fatalf("padded content at the limit should pass, got %v", err)
	}
	if len(got) != MaxMessageLength {
		t.Fatalf("expected %d runes after trim, got %d", MaxMessageLength, len(got))
	}
}
