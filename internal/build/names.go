package build

import (
	"fmt"
	"path/filepath"

	"github.com/kleisauke/cargo-c/internal/target"
)

// UnsupportedTargetError reports an OS/environment pair that has no entry in
// the artifact naming table.
type UnsupportedTargetError struct {
	OS  string
	Env string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("the target %s-%s is not supported yet", e.OS, e.Env)
}

// fileNames holds the platform naming convention for every artifact slot.
// Slots the platform convention does not define are empty.
type fileNames struct {
	staticLib string
	sharedLib string
	implLib   string
	debugInfo string
	def       string
}

// fileNamesFromTarget resolves the artifact naming convention for a target.
// This is a pure table lookup; OS/environment pairs outside the table fail
// with UnsupportedTargetError, never with a partial result.
func fileNamesFromTarget(t *target.Target, libName, targetdir string) (fileNames, error) {
	var names fileNames
	switch t.OS {
	case "none", "linux", "freebsd", "dragonfly", "netbsd", "android", "haiku",
		"illumos", "openbsd", "emscripten", "hurd":
		names.staticLib = filepath.Join(targetdir, "lib"+libName+".a")
		names.sharedLib = filepath.Join(targetdir, "lib"+libName+".so")
	case "macos", "ios", "tvos", "visionos":
		names.staticLib = filepath.Join(targetdir, "lib"+libName+".a")
		names.sharedLib = filepath.Join(targetdir, "lib"+libName+".dylib")
	case "windows":
		if t.Env == "msvc" {
			names.staticLib = filepath.Join(targetdir, libName+".lib")
			names.sharedLib = filepath.Join(targetdir, libName+".dll")
			names.implLib = filepath.Join(targetdir, libName+".dll.lib")
			names.debugInfo = filepath.Join(targetdir, libName+".pdb")
			names.def = filepath.Join(targetdir, libName+".def")
		} else {
			// windows-gnu keeps the lib prefix for the static and import
			// libraries but not for the DLL itself
			names.staticLib = filepath.Join(targetdir, "lib"+libName+".a")
			names.sharedLib = filepath.Join(targetdir, libName+".dll")
			names.implLib = filepath.Join(targetdir, "lib"+libName+".dll.a")
		}
	default:
		return fileNames{}, &UnsupportedTargetError{OS: t.OS, Env: t.Env}
	}
	return names, nil
}
