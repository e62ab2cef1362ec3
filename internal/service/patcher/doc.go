// Package patcher rewrites the generated package manifests after a wasm-pack build.
//
// The node manifest is patched before the web manifest. Each one gets its
// distribution-specific package name and the shared keyword list, and every
// other field is written back unchanged. The first failure stops the run and
// nothing already written is rolled back.
package patcher
