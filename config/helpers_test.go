// ABOUTME: Test helpers for config tests
// ABOUTME: Runs each test in an empty directory with a controlled environment

package config

import (
	"os"
	"strings"
	"testing"
)

// withCleanEnv clears the environment, sets vars, and moves the test into an
// empty directory so no stray .env file is loaded. The returned func restores
// the environment; register it with t.Cleanup.
func withCleanEnv(t *testing.T, vars map[string]string) func() {
	t.Helper()
	t.Chdir(t.TempDir())

	saved := os.Environ()
	os.Clearenv()
	for key, value := range vars {
		os.Setenv(key, value)
	}

	return func() {
		os.Clearenv()
		for _, kv := range saved {
			if key, value, ok := strings.Cut(kv, "="); ok {
				os.Setenv(key, value)
			}
		}
	}
}

// writeDotEnv creates a .env file in the current (temporary) directory
func writeDotEnv(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(".env", []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
}
