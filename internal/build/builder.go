package build

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kleisauke/cargo-c/internal/msg"
	"github.com/kleisauke/cargo-c/internal/target"
)

// Builder drives cargo to compile a library crate and resolves the
// C-callable artifact set the build produces.
type Builder struct {
	manifest *Manifest
	basedir  string
	env      ConfigEnv
	target   *target.Target
	triple   string // --target flag verbatim, empty when building for the host
}

// NewBuilderInDirectory loads the Cargo.toml in path. An empty triple means
// the host target.
func NewBuilderInDirectory(path, triple string) (*Builder, error) {
	var err error
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	var t *target.Target
	if triple != "" {
		t, err = target.FromFlag(triple)
		if err != nil {
			return nil, err
		}
	} else {
		t = target.Host()
	}

	env := NewConfigEnv(t)
	manifest, err := LoadManifest(filepath.Join(path, "Cargo.toml"), env)
	if err != nil {
		return nil, err
	}

	return &Builder{manifest: manifest, basedir: path, env: env, target: t, triple: triple}, nil
}

func (b *Builder) Manifest() *Manifest    { return b.manifest }
func (b *Builder) Target() *target.Target { return b.target }

// LibName is the C library name, from [package.metadata.capi.library] or
// derived from the crate name.
func (b *Builder) LibName() string {
	return b.manifest.Capi.Library.Name
}

// TargetDir is where cargo places artifacts for the given profile. An
// explicit --target adds the triple subdirectory, mirroring cargo's layout.
func (b *Builder) TargetDir(profile string) string {
	dir := filepath.Join(b.basedir, "target")
	if b.target.Overridden {
		dir = filepath.Join(dir, b.triple)
	}
	return filepath.Join(dir, profile)
}

// Resolve computes the artifact set without compiling anything. Generated
// extra targets only resolve when the target directory already exists from
// an earlier build.
func (b *Builder) Resolve(profile string, types LibraryTypes) (*BuildTargets, error) {
	targetdir := b.TargetDir(profile)
	bt, err := NewBuildTargets(b.LibName(), b.target, targetdir, types, &b.manifest.Capi)
	if err != nil {
		return nil, err
	}

	outDir := targetdir
	if _, err := os.Stat(targetdir); err != nil {
		outDir = ""
	}
	if err := bt.Extra.Setup(&b.manifest.Capi, b.basedir, outDir); err != nil {
		return nil, err
	}
	return bt, nil
}

// Build compiles the crate via cargo and resolves the artifact set,
// including the generated pkg-config file and header.
func (b *Builder) Build(profile string, types LibraryTypes) (*BuildTargets, error) {
	args := []string{"rustc"}
	if profile == "release" {
		args = append(args, "--release")
	}
	if b.target.Overridden {
		args = append(args, "--target", b.triple)
	}
	if types.Staticlib {
		args = append(args, "--crate-type", "staticlib")
	}
	if types.Cdylib {
		args = append(args, "--crate-type", "cdylib")
	}

	msg.Status("Compiling", "%s v%s", b.manifest.Package.Name, b.manifest.Package.Version)
	cmd := exec.Command("cargo", args...)
	cmd.Dir = b.basedir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("cargo rustc: %w", err)
	}

	targetdir := b.TargetDir(profile)
	bt, err := NewBuildTargets(b.LibName(), b.target, targetdir, types, &b.manifest.Capi)
	if err != nil {
		return nil, err
	}
	if err := bt.Extra.Setup(&b.manifest.Capi, b.basedir, targetdir); err != nil {
		return nil, err
	}

	if err := b.writePcFile(bt); err != nil {
		return nil, err
	}
	if bt.Include != "" {
		if err := b.generateHeader(bt); err != nil {
			return nil, err
		}
	}

	return bt, nil
}

func (b *Builder) writePcFile(bt *BuildTargets) error {
	// the build-tree pc file assumes the default prefix; cinstall rewrites
	// it for the requested layout
	pc := NewPcFile(&b.manifest.Capi, b.LibName(), "/usr/local", "/usr/local/lib", "/usr/local/include")
	if err := os.MkdirAll(filepath.Dir(bt.Pc), 0o755); err != nil {
		return err
	}
	return os.WriteFile(bt.Pc, []byte(pc.Render()), 0o644)
}

// generateHeader runs cbindgen to produce the public C header.
func (b *Builder) generateHeader(bt *BuildTargets) error {
	cbindgen, err := exec.LookPath("cbindgen")
	if err != nil {
		msg.Warn("cbindgen not found, skipping header generation")
		return nil
	}

	cmd := exec.Command(cbindgen, "--output", bt.Include)
	cmd.Dir = b.basedir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cbindgen: %w", err)
	}
	return nil
}
