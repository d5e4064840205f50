package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "api key is redacted",
			input:    "sk-proj-abcdef1234567890",
			expected: "[REDACTED]",
		},
		{
			name:     "empty value is still redacted",
			input:    "",
			expected: "[REDACTED]",
		},
		{
			name:     "anthropic key is redacted",
			input:    "sk-ant-api03-xyz",
			expected: "[REDACTED]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Secret(tt.input).String()
			if result != tt.expected {
				t.Errorf("Secret(%q).String() = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSecretGoString(t *testing.T) {
	goStringValue := Secret("sk-live-key").GoString()
	if goStringValue != "[REDACTED]" {
		t.Errorf("Expected [REDACTED] for GoString, got %s", goStringValue)
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(false, true, &buf)

	logger.Info("scanned %d files", 12)
	logger.Warn("skipping oversized file")
	logger.Error("cannot read config")
	logger.Debug("hidden in non-debug mode")

	out := buf.String()
	if !strings.Contains(out, "✓ scanned 12 files") {
		t.Errorf("missing info line in output: %q", out)
	}
	if !strings.Contains(out, "⚠ skipping oversized file") {
		t.Errorf("missing warn line in output: %q", out)
	}
	if !strings.Contains(out, "✗ cannot read config") {
		t.Errorf("missing error line in output: %q", out)
	}
	if strings.Contains(out, "hidden in non-debug mode") {
		t.Errorf("debug line should be suppressed: %q", out)
	}
}

func TestLoggerDebugMode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(true, true, &buf)

	logger.Debug("walking %s", "/home/user/.config")

	if !strings.Contains(buf.String(), "[DEBUG] walking /home/user/.config") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

// TestRedactFunction tests the Redact utility function
func TestRedactFunction(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		values   []string
		expected string
	}{
		{
			name:     "single value redacted",
			input:    "found key sk-test-12345 in .env",
			values:   []string{"sk-test-12345"},
			expected: "found key [REDACTED] in .env",
		},
		{
			name:     "multiple values redacted",
			input:    "keys sk-aaa111 and gsk_bbb222 discovered",
			values:   []string{"sk-aaa111", "gsk_bbb222"},
			expected: "keys [REDACTED] and [REDACTED] discovered",
		},
		{
			name:     "no values to redact",
			input:    "nothing sensitive here",
			values:   []string{},
			expected: "nothing sensitive here",
		},
		{
			name:     "empty value ignored",
			input:    "nothing sensitive here",
			values:   []string{""},
			expected: "nothing sensitive here",
		},
		{
			name:     "short value ignored",
			input:    "short value: ab",
			values:   []string{"ab"},
			expected: "short value: ab", // Too short to redact
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Redact(tt.input, tt.values)
			if result != tt.expected {
				t.Errorf("Redact() = %q, want %q", result, tt.expected)
			}
		})
	}
}
