// Package manifest implements loading and saving of generated package manifests.
//
// A Document keeps top-level fields in their original order together with the
// raw JSON text of every value, so fields the patcher does not touch are
// written back with exactly the value text they were read with. The
// FileRepository reads and writes a Document at a fixed path.
package manifest
