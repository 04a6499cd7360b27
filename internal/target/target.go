package target

import (
	"fmt"
	"runtime"
	"strings"
)

// Target identifies the platform a library is built for, in rustc
// target-triple terms. Values are never mutated after construction.
type Target struct {
	Arch string
	OS   string
	Env  string
	// Overridden is true when the triple came from an explicit --target
	// flag rather than host detection.
	Overridden bool
}

// osTokens maps triple OS components to their cfg(target_os) names.
var osTokens = map[string]string{
	"none":       "none",
	"linux":      "linux",
	"windows":    "windows",
	"freebsd":    "freebsd",
	"dragonfly":  "dragonfly",
	"netbsd":     "netbsd",
	"openbsd":    "openbsd",
	"haiku":      "haiku",
	"illumos":    "illumos",
	"emscripten": "emscripten",
	"hurd":       "hurd",
	"darwin":     "macos",
	"ios":        "ios",
	"tvos":       "tvos",
	"visionos":   "visionos",
	// recognized but not necessarily supported downstream
	"fuchsia": "fuchsia",
	"solaris": "solaris",
	"redox":   "redox",
	"wasi":    "wasi",
}

// Parse splits a target triple like x86_64-unknown-linux-gnu or
// aarch64-apple-darwin into its components. The vendor field is discarded.
func Parse(triple string) (*Target, error) {
	parts := strings.Split(triple, "-")
	if len(parts) < 2 {
		return nil, fmt.Errorf("unrecognized target triple %q", triple)
	}

	t := &Target{Arch: parts[0]}
	rest := parts[1:]
	for i, part := range rest {
		os, ok := osTokens[part]
		if !ok {
			continue
		}
		t.OS = os
		if i+1 < len(rest) {
			t.Env = normalizeEnv(rest[i+1])
		}
		break
	}

	if t.OS == "" {
		// triples like arm-linux-androideabi carry the OS in the env slot
		last := rest[len(rest)-1]
		if strings.HasPrefix(last, "android") {
			t.OS = "android"
			return t, nil
		}
		return nil, fmt.Errorf("unrecognized target triple %q", triple)
	}

	if strings.HasPrefix(t.Env, "android") {
		t.OS = "android"
		t.Env = ""
	}

	return t, nil
}

func normalizeEnv(env string) string {
	// gnueabihf, musleabi and friends all share the base environment
	env = strings.TrimSuffix(env, "eabihf")
	env = strings.TrimSuffix(env, "eabi")
	return env
}

// FromFlag parses an explicit --target triple.
func FromFlag(triple string) (*Target, error) {
	t, err := Parse(triple)
	if err != nil {
		return nil, err
	}
	t.Overridden = true
	return t, nil
}

var goarchNames = map[string]string{
	"amd64": "x86_64",
	"arm64": "aarch64",
	"386":   "i686",
	"arm":   "arm",
}

// Host detects the target of the machine we are running on.
func Host() *Target {
	arch, ok := goarchNames[runtime.GOARCH]
	if !ok {
		arch = runtime.GOARCH
	}

	t := &Target{Arch: arch}
	switch runtime.GOOS {
	case "darwin":
		t.OS = "macos"
	case "windows":
		t.OS = "windows"
		if hasVisualStudio() {
			t.Env = "msvc"
		} else {
			t.Env = "gnu"
		}
	case "linux":
		t.OS = "linux"
		t.Env = "gnu"
	default:
		t.OS = runtime.GOOS
	}
	return t
}

func (t *Target) String() string {
	s := t.Arch + "-" + t.OS
	if t.Env != "" {
		s += "-" + t.Env
	}
	return s
}
