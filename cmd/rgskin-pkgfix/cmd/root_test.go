package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeBuild creates the node and web manifests under a temporary root; empty contents skip a file.
func writeBuild(t *testing.T, node, web string) string {
	t.Helper()

	root := t.TempDir()

	for dir, contents := range map[string]string{"dist-node": node, "dist-web": web} {
		if contents == "" {
			continue
		}

		path := filepath.Join(root, dir, "package.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}

	return root
}

// TestRun_ExitCodesAndStreams checks the exit code, the confirmation lines and the failure reason.
// Not parallel: the run swaps the global logger.
func TestRun_ExitCodesAndStreams(t *testing.T) {
	cases := []struct {
		name       string
		node       string
		web        string
		extraArgs  []string
		wantCode   int
		wantStdout []string
		denyStdout []string
		wantStderr []string
	}{
		{
			name:     "success",
			node:     `{"name":"old","version":"1.0.0"}`,
			web:      `{"name":"old","private":true}`,
			wantCode: 0,
			wantStdout: []string{
				"Node package name and keywords updated",
				"Web package name and keywords updated",
				"All package names and keywords updated",
			},
		},
		{
			name:       "missing node manifest",
			web:        `{"name":"old"}`,
			wantCode:   1,
			denyStdout: []string{"package name and keywords updated", "All package names"},
			wantStderr: []string{"node manifest", "manifest not found", filepath.Join("dist-node", "package.json")},
		},
		{
			name:       "malformed web manifest",
			node:       `{"name":"old"}`,
			web:        `{"name":"old",`,
			wantCode:   1,
			wantStdout: []string{"Node package name and keywords updated"},
			denyStdout: []string{"All package names"},
			wantStderr: []string{"web manifest", "manifest parse error"},
		},
		{
			name:       "failure reason survives a fatal log level",
			node:       `{"name":"old"}`,
			web:        `{"name":"old",`,
			extraArgs:  []string{"--log-level", "fatal"},
			wantCode:   1,
			denyStdout: []string{"updated"},
			wantStderr: []string{"web manifest", "manifest parse error"},
		},
		{
			name:       "unknown log level",
			node:       `{"name":"old"}`,
			web:        `{"name":"old"}`,
			extraArgs:  []string{"--log-level", "loud"},
			wantCode:   1,
			wantStderr: []string{`unknown log level "loud"`},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := writeBuild(t, tc.node, tc.web)

			var stdout, stderr bytes.Buffer

			args := append([]string{"--root", root}, tc.extraArgs...)
			code := run(context.Background(), args, &stdout, &stderr)

			require.Equal(t, tc.wantCode, code, "stderr: %s", stderr.String())

			for _, want := range tc.wantStdout {
				require.Contains(t, stdout.String(), want)
			}

			for _, deny := range tc.denyStdout {
				require.NotContains(t, stdout.String(), deny)
			}

			if len(tc.wantStderr) == 0 {
				require.Empty(t, stderr.String())
			}

			for _, want := range tc.wantStderr {
				require.Contains(t, stderr.String(), want)
			}
		})
	}
}

// TestRun_InitConfig writes the default settings to the requested path.
func TestRun_InitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")

	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"init-config", path}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "node_suffix:")
	require.Contains(t, string(contents), "-nodejs")
	require.Contains(t, stdout.String(), "Settings written")
}

// TestRun_ExplicitConfigMustExist fails when --config names a missing file.
func TestRun_ExplicitConfigMustExist(t *testing.T) {
	root := writeBuild(t, `{"name":"old"}`, `{"name":"old"}`)

	var stdout, stderr bytes.Buffer

	args := []string{"--root", root, "--config", filepath.Join(root, "missing.yaml")}
	require.Equal(t, 1, run(context.Background(), args, &stdout, &stderr))
	require.Contains(t, stderr.String(), "load settings")
}
