package target

import (
	"runtime"

	"github.com/heaths/go-vssetup"
)

// hasVisualStudio reports whether a Visual Studio instance with the MSVC
// toolset is installed. Off Windows the setup COM API is unavailable and
// this always reports false.
func hasVisualStudio() bool {
	if runtime.GOOS != "windows" {
		return false
	}
	instances, err := vssetup.Instances(false)
	if err != nil {
		return false
	}
	return len(instances) > 0
}
