package build

import (
	"strings"
	"testing"
)

const sampleManifest = `
[package]
name = "ferris-lib"
version = "1.2.3"
description = "An example library."

[package.metadata.capi.header]
subdirectory = "ferris"

[package.metadata.capi.pkg_config]
requires = "zlib"

[[package.metadata.capi.install.include.asset]]
from = "include/**/*.h"
to = ""

[[package.metadata.capi.install.data.asset]]
from = "data/settings.toml"
to = "ferris"

[[package.metadata.capi.install.data.generated]]
from = "docs/{{ target_os }}.md"
to = "doc"
`

func testEnv() ConfigEnv {
	return ConfigEnv{TargetOS: "linux", TargetEnv: "gnu", TargetArch: "x86_64"}
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest(strings.NewReader(sampleManifest), testEnv())
	if err != nil {
		t.Fatal(err)
	}

	if m.Package.Name != "ferris-lib" || m.Package.Version != "1.2.3" {
		t.Errorf("package = %+v", m.Package)
	}

	// crate-name hyphens become underscores in the library name
	if m.Capi.Library.Name != "ferris_lib" {
		t.Errorf("library name = %q, want ferris_lib", m.Capi.Library.Name)
	}
	if m.Capi.Library.Version != "1.2.3" {
		t.Errorf("library version = %q, want 1.2.3", m.Capi.Library.Version)
	}

	if !m.Capi.Header.Enabled || !m.Capi.Header.Generation {
		t.Error("header generation should default to enabled")
	}
	if m.Capi.Header.Name != "ferris_lib" {
		t.Errorf("header name = %q, want ferris_lib", m.Capi.Header.Name)
	}
	if m.Capi.Header.Subdirectory != "ferris" {
		t.Errorf("header subdirectory = %q, want ferris", m.Capi.Header.Subdirectory)
	}

	pc := m.Capi.PkgConfig
	if pc.Filename != "ferris_lib" || pc.Name != "ferris_lib" {
		t.Errorf("pkg_config defaults = %+v", pc)
	}
	if pc.Version != "1.2.3" || pc.Description != "An example library." {
		t.Errorf("pkg_config inherits package fields: %+v", pc)
	}
	if pc.Requires != "zlib" {
		t.Errorf("pkg_config requires = %q, want zlib", pc.Requires)
	}

	if len(m.Capi.Install.Include) != 1 || m.Capi.Install.Include[0].Generated {
		t.Fatalf("install include = %+v", m.Capi.Install.Include)
	}
	if m.Capi.Install.Include[0].Paths.From != "include/**/*.h" {
		t.Errorf("include from = %q", m.Capi.Install.Include[0].Paths.From)
	}

	data := m.Capi.Install.Data
	if len(data) != 2 {
		t.Fatalf("install data = %+v", data)
	}
	if data[0].Generated || !data[1].Generated {
		t.Errorf("asset declarations come before generated ones: %+v", data)
	}
	// {{ target_os }} was interpolated from the config environment
	if data[1].Paths.From != "docs/linux.md" {
		t.Errorf("generated from = %q, want docs/linux.md", data[1].Paths.From)
	}
}

func TestParseManifestDefaultsOnly(t *testing.T) {
	manifest := `
[package]
name = "simple"
version = "0.2.0"
`
	m, err := ParseManifest(strings.NewReader(manifest), testEnv())
	if err != nil {
		t.Fatal(err)
	}
	if m.Capi.Library.Name != "simple" || m.Capi.PkgConfig.Filename != "simple" {
		t.Errorf("defaults = %+v", m.Capi)
	}
	if !m.Capi.Header.Enabled || m.Capi.Header.Name != "simple" {
		t.Errorf("header defaults = %+v", m.Capi.Header)
	}
	if len(m.Capi.Install.Include) != 0 || len(m.Capi.Install.Data) != 0 {
		t.Errorf("install should be empty: %+v", m.Capi.Install)
	}
}

func TestParseManifestHeaderOptOut(t *testing.T) {
	manifest := `
[package]
name = "quiet"
version = "0.1.0"

[package.metadata.capi.header]
enabled = false
`
	m, err := ParseManifest(strings.NewReader(manifest), testEnv())
	if err != nil {
		t.Fatal(err)
	}
	if m.Capi.Header.Enabled {
		t.Error("enabled = false in the manifest must win over the default")
	}
}

func TestParseManifestMissingName(t *testing.T) {
	if _, err := ParseManifest(strings.NewReader("[package]\nversion = \"1.0.0\"\n"), testEnv()); err == nil {
		t.Fatal("expected an error for a manifest without a package name")
	}
}

func TestParseManifestBadExpression(t *testing.T) {
	manifest := `
[package]
name = "broken"
version = "0.1.0"

[package.metadata.capi.pkg_config]
description = "{{ no_such_variable }}"
`
	if _, err := ParseManifest(strings.NewReader(manifest), testEnv()); err == nil {
		t.Fatal("expected an error for an unknown expression variable")
	}
}
