// Package config carries the process-wide constants a host embedding Rib
// needs: the reserved-identifier set, recognized source file extensions,
// and the build-time version string.
package config

// Version is the current Rib core version.
// Set at build time via -ldflags, continuing the pattern the teacher's
// own binaries used for their version string.
var Version = "0.1.0"

const SourceFileExt = ".rib"

// SourceFileExtensions are all recognized Rib source file extensions.
var SourceFileExtensions = []string{".rib"}

// TrimSourceExt removes the .rib extension from a filename, if present.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with a recognized Rib
// source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// ReservedIdentifiers is the compile-time-constant set of names a Rib
// program can never bind as a global: the designated contexts and
// keywords spec.md §5 calls the only process-wide datum the core keeps.
var ReservedIdentifiers = []string{
	"request", "worker", "some", "none", "ok", "err", "match", "if", "then", "else", "_",
}

// IsReserved reports whether name is one of the reserved identifiers.
func IsReserved(name string) bool {
	for _, r := range ReservedIdentifiers {
		if r == name {
			return true
		}
	}
	return false
}
