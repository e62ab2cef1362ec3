package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/r2o3/rgskin-pkgfix/internal/domain/distribution"
)

// TestValidate checks required fields and normalization of settings.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.Error(t, Validate(nil))

	// Missing name.
	settings := Default()
	settings.Name = " "
	require.ErrorIs(t, Validate(settings), errNameRequired)

	// Same suffix.
	settings = Default()
	settings.WebSuffix = settings.NodeSuffix
	require.ErrorIs(t, Validate(settings), errSameSuffix)

	// Same folder.
	settings = Default()
	settings.WebDir = "./" + settings.NodeDir
	require.ErrorIs(t, Validate(settings), errSameDir)

	// Blank keyword.
	settings = Default()
	settings.Keywords = append(settings.Keywords, "")
	require.ErrorIs(t, Validate(settings), errEmptyKeyword)

	// Scope normalized, empty keywords allowed.
	settings = Default()
	settings.Scope = "@r2o3"
	settings.Keywords = nil
	require.NoError(t, Validate(settings))
	require.Equal(t, "r2o3", settings.Scope)
}

// TestTargets verifies the default names and paths of both distributions.
func TestTargets(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Root = "build"

	targets := cfg.Targets()
	require.Len(t, targets, 2)

	require.Equal(t, distribution.Node, targets[0].Kind)
	require.Equal(t, "@r2o3/rgskin-nodejs", targets[0].Name)
	require.Equal(t, filepath.Join("build", "dist-node", "package.json"), targets[0].Path)

	require.Equal(t, distribution.Web, targets[1].Kind)
	require.Equal(t, "@r2o3/rgskin-browser", targets[1].Name)
	require.Equal(t, filepath.Join("build", "dist-web", "package.json"), targets[1].Path)

	require.Equal(t, cfg.Keywords, targets[0].Keywords)
	require.Equal(t, targets[0].Keywords, targets[1].Keywords)

	cfg.Scope = ""
	require.Equal(t, "rgskin-browser", cfg.PackageName(distribution.Web))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := Default()
	settings.Scope = "acme"
	settings.Keywords = []string{"a", "b"}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoad_Defaults returns compiled-in settings when no file is given.
func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default().Keywords, loaded.Keywords)
	require.Equal(t, Default().NodeDir, loaded.NodeDir)
}

// TestLoad_PartialFile keeps defaults for keys the file omits.
func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scope: acme\nkeywords: [x]\n"), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "acme", loaded.Scope)
	require.Equal(t, []string{"x"}, loaded.Keywords)
	require.Equal(t, "rgskin", loaded.Name)
	require.Equal(t, "-browser", loaded.WebSuffix)
}

// TestLoad_Missing fails when an explicit file does not exist.
func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestLoad_Environment lets environment variables override the defaults.
func TestLoad_Environment(t *testing.T) {
	t.Setenv(EnvPrefix+"_SCOPE", "env-scope")
	t.Setenv(EnvPrefix+"_NODE_DIR", "out/node")

	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "env-scope", loaded.Scope)
	require.Equal(t, "out/node", loaded.NodeDir)
}
