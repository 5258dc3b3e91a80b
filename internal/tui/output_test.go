package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/git-deploy/internal/errors"
)

func TestNewOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		format string
		want   any
	}{
		{FormatJSON, &JSONOutput{}},
		{FormatText, &TTYOutput{}},
		{"", &TTYOutput{}},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			assert.IsType(t, tc.want, NewOutput(&bytes.Buffer{}, tc.format))
		})
	}
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("published 1.2.3")
	out.Warning("no changes")
	out.Info("resolving")

	got := buf.String()
	assert.Contains(t, got, "✓ published 1.2.3")
	assert.Contains(t, got, "⚠ no changes")
	assert.Contains(t, got, "resolving")
}

func TestTTYOutput_Error(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	NewTTYOutput(&buf).Error(fmt.Errorf("clone: %w", errors.ErrAuthentication))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "✗ Could not authenticate")
	assert.Contains(t, lines[1], "clone: authentication failed")
	assert.Contains(t, lines[2], "▸ Try:")
}

func TestTTYOutput_Fields(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	NewTTYOutput(&buf).Fields([]Field{
		{Key: "version", Value: "1.2.3"},
		{Key: "commit", Value: "abc1234"},
		{Key: "latest", Value: ""},
	})

	assert.Equal(t, "  version  1.2.3\n  commit   abc1234\n", buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("done")
	out.Warning("careful")
	out.Info("note")
	out.Fields([]Field{{Key: "ignored", Value: "x"}})
	out.Error(errors.ErrConfigParse)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var msg map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &msg))
	assert.Equal(t, "success", msg["type"])
	assert.Equal(t, "done", msg["message"])

	var errMsg map[string]string
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &errMsg))
	assert.Equal(t, "error", errMsg["type"])
	assert.Equal(t, "The configuration file is not valid JSON.", errMsg["message"])
	assert.Equal(t, "failed to parse config file", errMsg["details"])
	assert.NotEmpty(t, errMsg["suggestion"])
}

func TestJSONOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONOutput(&buf).JSON(map[string]string{"versionId": "1.0.0"}))
	assert.JSONEq(t, `{"versionId":"1.0.0"}`, buf.String())
}

func TestHasColorSupport(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.False(t, HasColorSupport())
}

func TestHasColorSupport_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, HasColorSupport())
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab  ", padRight("ab", 4))
	assert.Equal(t, "abcdef", padRight("abcdef", 4))
	assert.Equal(t, "日本  ", padRight("日本", 6))
}
