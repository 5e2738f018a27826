// Package getpath resolves command-line and manifest paths.
package getpath

import (
	"os"
	"path/filepath"
)

var wd string

func init() {
	wd = os.Getenv("BUILD_WORKING_DIRECTORY")
}

// GetPath returns the path to the file, which will be correct even when run
// from Bazel.
func GetPath(filename string) string {
	if filename != "" && wd != "" && !filepath.IsAbs(filename) {
		return filepath.Join(wd, filename)
	}
	return filename
}

// Resolve returns the path to a file named in a manifest. Relative names are
// relative to the directory containing the manifest.
func Resolve(manifest, name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(manifest), name)
}
