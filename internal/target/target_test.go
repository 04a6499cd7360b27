package target

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		triple string
		want   Target
	}{
		{"x86_64-unknown-linux-gnu", Target{Arch: "x86_64", OS: "linux", Env: "gnu"}},
		{"x86_64-unknown-linux-musl", Target{Arch: "x86_64", OS: "linux", Env: "musl"}},
		{"arm-unknown-linux-gnueabihf", Target{Arch: "arm", OS: "linux", Env: "gnu"}},
		{"aarch64-apple-darwin", Target{Arch: "aarch64", OS: "macos"}},
		{"aarch64-apple-ios", Target{Arch: "aarch64", OS: "ios"}},
		{"x86_64-pc-windows-msvc", Target{Arch: "x86_64", OS: "windows", Env: "msvc"}},
		{"x86_64-pc-windows-gnu", Target{Arch: "x86_64", OS: "windows", Env: "gnu"}},
		{"aarch64-linux-android", Target{Arch: "aarch64", OS: "android"}},
		{"armv7-linux-androideabi", Target{Arch: "armv7", OS: "android"}},
		{"wasm32-unknown-emscripten", Target{Arch: "wasm32", OS: "emscripten"}},
		{"thumbv7em-none-eabi", Target{Arch: "thumbv7em", OS: "none"}},
		{"x86_64-unknown-freebsd", Target{Arch: "x86_64", OS: "freebsd"}},
	}

	for _, tt := range tests {
		got, err := Parse(tt.triple)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.triple, err)
			continue
		}
		if *got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.triple, *got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, triple := range []string{"", "x86_64", "x86_64-unknown-notanos"} {
		if _, err := Parse(triple); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", triple)
		}
	}
}

func TestFromFlagSetsOverridden(t *testing.T) {
	got, err := FromFlag("x86_64-unknown-linux-gnu")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Overridden {
		t.Error("FromFlag did not mark the target as overridden")
	}

	host := Host()
	if host.Overridden {
		t.Error("Host targets must not be marked overridden")
	}
}

func TestString(t *testing.T) {
	tgt := Target{Arch: "x86_64", OS: "linux", Env: "gnu"}
	if got := tgt.String(); got != "x86_64-linux-gnu" {
		t.Errorf("String() = %q", got)
	}
	tgt = Target{Arch: "aarch64", OS: "macos"}
	if got := tgt.String(); got != "aarch64-macos" {
		t.Errorf("String() = %q", got)
	}
}
