// Package config defines the patcher settings and provides helpers to load,
// validate and save them in YAML format.
//
// Settings are layered: compiled-in defaults, then an optional YAML file, then
// RGSKIN_PKGFIX_* environment variables. Targets resolves the node and web
// distribution targets from the final settings.
package config
