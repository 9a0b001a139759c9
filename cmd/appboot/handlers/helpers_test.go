package handlers

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

// captureOut redirects user-facing output into a buffer for one test.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	orig := out
	buf := &bytes.Buffer{}
	out = buf
	t.Cleanup(func() { out = orig })
	return buf
}

// useEnv replaces the environment seen by handlers for one test.
func useEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := envLookuper
	envLookuper = envconfig.MapLookuper(env)
	t.Cleanup(func() { envLookuper = orig })
}

// writePlanFile writes a minimal plan deploying into a temp directory and
// returns its path.
func writePlanFile(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	plan := "name: web\n" +
		"repository:\n  url: https://example.com/web.git\n" +
		"deploy_path: " + filepath.Join(dir, "srv") + "\n" +
		"infrastructure:\n  key_dir: " + dir + "\n" +
		extra
	path := filepath.Join(dir, "appboot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(plan), 0600))
	return path
}
