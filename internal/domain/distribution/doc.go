// Package distribution contains the domain types for the two build outputs.
//
// It defines Kind (node or web) and Target (where a distribution's manifest
// lives and which package name it is published under).
package distribution
