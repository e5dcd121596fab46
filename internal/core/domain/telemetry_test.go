package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/robuild/internal/core/domain"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.LogLevel
	}{
		{"debug", domain.LogLevelDebug},
		{"DEBUG", domain.LogLevelDebug},
		{"info", domain.LogLevelInfo},
		{"warn", domain.LogLevelWarn},
		{"warning", domain.LogLevelWarn},
		{" error ", domain.LogLevelError},
		{"unknown", domain.LogLevelInfo},
		{"", domain.LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.ParseLogLevel(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    domain.LogLevel
		expected string
	}{
		{domain.LogLevelDebug, "DEBUG"},
		{domain.LogLevelInfo, "INFO"},
		{domain.LogLevelWarn, "WARN"},
		{domain.LogLevelError, "ERROR"},
		{domain.LogLevel(999), "INFO"}, // Default case
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}
