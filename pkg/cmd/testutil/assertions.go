package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireFileExists asserts that a file exists and optionally checks its content
func RequireFileExists(t *testing.T, path string, checks ...func(content string)) {
	t.Helper()

	require.FileExists(t, path, "File should exist: %s", path)

	if len(checks) > 0 {
		content, err := os.ReadFile(path)
		require.NoError(t, err, "Failed to read file: %s", path)

		contentStr := string(content)
		for _, check := range checks {
			check(contentStr)
		}
	}
}

// RequireFileContains returns a check function that verifies file contains text
func RequireFileContains(t *testing.T, expected string) func(string) {
	return func(content string) {
		require.Contains(t, content, expected, "File should contain: %s", expected)
	}
}

// RequireFileNotContains returns a check function that verifies file doesn't contain text
func RequireFileNotContains(t *testing.T, unexpected string) func(string) {
	return func(content string) {
		require.NotContains(t, content, unexpected, "File should not contain: %s", unexpected)
	}
}

// RequireNoFile asserts that a file does not exist
func RequireNoFile(t *testing.T, path string) {
	t.Helper()

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "File should not exist: %s", path)
}

// RequireReport asserts that output contains one [OK] line per succeeded
// script, one [ERROR] line per failed script and the matching summary.
func RequireReport(t *testing.T, output string, succeeded, failed []string) {
	t.Helper()

	for _, name := range succeeded {
		require.Contains(t, output, "  [OK] "+name+"\n", "Script should have succeeded: %s", name)
	}

	for _, name := range failed {
		require.Contains(t, output, "  [ERROR] "+name+": ", "Script should have failed: %s", name)
	}

	require.Equal(t, len(succeeded), strings.Count(output, "  [OK] "), "Unexpected number of [OK] lines")
	require.Equal(t, len(failed), strings.Count(output, "  [ERROR] "), "Unexpected number of [ERROR] lines")
	require.Contains(t, output, fmt.Sprintf("\nReport: %d succeeded, %d failed.\n", len(succeeded), len(failed)))
}

// RequireError asserts that an error occurred and optionally checks the message
func RequireError(t *testing.T, err error, msgContains ...string) {
	t.Helper()

	require.Error(t, err, "Expected an error")

	for _, msg := range msgContains {
		require.Contains(t, err.Error(), msg, "Error message should contain: %s", msg)
	}
}
