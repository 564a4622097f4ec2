package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"anthropic_api_key", "sk-123", "report_id", "SIM_ABCDEF12"})
	assert.Equal(t, []interface{}{"anthropic_api_key", "[REDACTED]", "report_id", "SIM_ABCDEF12"}, out)
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"stage", "classify", "orphan"})
	assert.Equal(t, []interface{}{"stage", "classify", "orphan"}, out)
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "k", 1)
	l.Warn("careful", "secret", "x")
	l.Sync()
}
