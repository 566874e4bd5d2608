package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"HUB_URL", "DATABASE_URL", "PROVISION_MODE", "HUB_TIMEOUT",
	"MIGRATE_SCHEMA", "LOG_LEVEL", "LOG_FORMAT", "LOG_BACKEND",
}

// isolateEnv unsets every variable Config reads and disables .env loading
// for the duration of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	orig := loadDotenv
	loadDotenv = func() {}
	t.Cleanup(func() { loadDotenv = orig })
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
