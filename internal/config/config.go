package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/r2o3/rgskin-pkgfix/internal/domain/distribution"
)

// Config holds the naming and layout settings for the generated manifests.
type Config struct {
	// Root is the directory the distribution folders are relative to.
	Root string `mapstructure:"root" yaml:"root"`
	// Scope is the npm organization, written without the leading "@".
	Scope string `mapstructure:"scope" yaml:"scope"`
	// Name is the base package name shared by both distributions.
	Name string `mapstructure:"name" yaml:"name"`
	// NodeSuffix is appended to Name for the node distribution.
	NodeSuffix string `mapstructure:"node_suffix" yaml:"node_suffix"`
	// WebSuffix is appended to Name for the web distribution.
	WebSuffix string `mapstructure:"web_suffix" yaml:"web_suffix"`
	// NodeDir is the node distribution output folder.
	NodeDir string `mapstructure:"node_dir" yaml:"node_dir"`
	// WebDir is the web distribution output folder.
	WebDir string `mapstructure:"web_dir" yaml:"web_dir"`
	// Keywords are written identically into both manifests.
	Keywords []string `mapstructure:"keywords" yaml:"keywords"`
	// BuildProcesses are executables that regenerate the manifests while running.
	BuildProcesses []string `mapstructure:"build_processes" yaml:"build_processes"`
}

const (
	// DefaultConfigFilename is the default filename for patcher settings.
	DefaultConfigFilename = "rgskin-pkgfix.yaml"

	// ManifestFilename is the manifest name inside each distribution folder.
	ManifestFilename = "package.json"

	// EnvPrefix is the prefix of environment variables overriding settings.
	EnvPrefix = "RGSKIN_PKGFIX"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o644
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNameRequired is returned when the base package name is missing.
	errNameRequired = errors.New("package name must be provided")
	// errSuffixRequired is returned when a distribution suffix is missing.
	errSuffixRequired = errors.New("node and web suffixes must be provided")
	// errSameSuffix is returned when both distributions would get the same package name.
	errSameSuffix = errors.New("node and web suffixes must differ")
	// errDirRequired is returned when a distribution folder is missing.
	errDirRequired = errors.New("node and web folders must be provided")
	// errSameDir is returned when both distributions point to one folder.
	errSameDir = errors.New("node and web folders must differ")
	// errEmptyKeyword is returned when the keyword list contains a blank token.
	errEmptyKeyword = errors.New("keywords must not contain empty values")
)

// Default returns the compiled-in settings for the rgskin build.
func Default() *Config {
	return &Config{
		Root:       ".",
		Scope:      "r2o3",
		Name:       "rgskin",
		NodeSuffix: "-nodejs",
		WebSuffix:  "-browser",
		NodeDir:    "dist-node",
		WebDir:     "dist-web",
		Keywords: []string{
			"wasm",
			"rust",
			"rhythm-game",
			"parser",
			"converter",
			"skin",
		},
		BuildProcesses: []string{"wasm-pack"},
	}
}

// Load builds settings from defaults, the optional YAML file at path and the environment.
// An empty path skips the file layer.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("scope", defaults.Scope)
	v.SetDefault("name", defaults.Name)
	v.SetDefault("node_suffix", defaults.NodeSuffix)
	v.SetDefault("web_suffix", defaults.WebSuffix)
	v.SetDefault("node_dir", defaults.NodeDir)
	v.SetDefault("web_dir", defaults.WebDir)
	v.SetDefault("keywords", defaults.Keywords)
	v.SetDefault("build_processes", defaults.BuildProcesses)

	if path != "" {
		v.SetConfigFile(filepath.Clean(path))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and normalizes them.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	settings.Scope = strings.TrimPrefix(strings.TrimSpace(settings.Scope), "@")
	settings.Name = strings.TrimSpace(settings.Name)

	if settings.Name == "" {
		return errNameRequired
	}

	if settings.NodeSuffix == "" || settings.WebSuffix == "" {
		return errSuffixRequired
	}

	if settings.NodeSuffix == settings.WebSuffix {
		return errSameSuffix
	}

	if settings.Root == "" {
		settings.Root = "."
	}

	if settings.NodeDir == "" || settings.WebDir == "" {
		return errDirRequired
	}

	if filepath.Clean(settings.NodeDir) == filepath.Clean(settings.WebDir) {
		return errSameDir
	}

	if slices.ContainsFunc(settings.Keywords, func(k string) bool { return strings.TrimSpace(k) == "" }) {
		return errEmptyKeyword
	}

	return nil
}

// PackageName returns the published name for a distribution.
func (c *Config) PackageName(kind distribution.Kind) string {
	suffix := c.NodeSuffix
	if kind == distribution.Web {
		suffix = c.WebSuffix
	}

	if c.Scope == "" {
		return c.Name + suffix
	}

	return "@" + c.Scope + "/" + c.Name + suffix
}

// ManifestPath returns the manifest location for a distribution.
func (c *Config) ManifestPath(kind distribution.Kind) string {
	dir := c.NodeDir
	if kind == distribution.Web {
		dir = c.WebDir
	}

	return filepath.Join(c.Root, dir, ManifestFilename)
}

// Targets resolves the distribution targets in patch order.
func (c *Config) Targets() []*distribution.Target {
	kinds := distribution.Kinds()
	targets := make([]*distribution.Target, 0, len(kinds))

	for _, kind := range kinds {
		targets = append(targets, &distribution.Target{
			Kind:     kind,
			Path:     c.ManifestPath(kind),
			Name:     c.PackageName(kind),
			Keywords: slices.Clone(c.Keywords),
		})
	}

	return targets
}
