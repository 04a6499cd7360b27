package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kleisauke/cargo-c/internal/build"
	"github.com/kleisauke/cargo-c/internal/msg"
	"golang.org/x/sync/errgroup"
)

// Paths is the install directory layout. All directories are absolute;
// Destdir, when set, is prepended to every destination for staged installs.
type Paths struct {
	Destdir      string
	Prefix       string
	Libdir       string
	Includedir   string
	Bindir       string
	Datadir      string
	Pkgconfigdir string
}

// DefaultPaths returns the conventional /usr/local layout.
func DefaultPaths() Paths {
	prefix := "/usr/local"
	libdir := filepath.Join(prefix, "lib")
	return Paths{
		Prefix:       prefix,
		Libdir:       libdir,
		Includedir:   filepath.Join(prefix, "include"),
		Bindir:       filepath.Join(prefix, "bin"),
		Datadir:      filepath.Join(prefix, "share"),
		Pkgconfigdir: filepath.Join(libdir, "pkgconfig"),
	}
}

// Normalize fills unset directories from the prefix.
func (p Paths) Normalize() Paths {
	if p.Prefix == "" {
		p.Prefix = "/usr/local"
	}
	if p.Libdir == "" {
		p.Libdir = filepath.Join(p.Prefix, "lib")
	}
	if p.Includedir == "" {
		p.Includedir = filepath.Join(p.Prefix, "include")
	}
	if p.Bindir == "" {
		p.Bindir = filepath.Join(p.Prefix, "bin")
	}
	if p.Datadir == "" {
		p.Datadir = filepath.Join(p.Prefix, "share")
	}
	if p.Pkgconfigdir == "" {
		p.Pkgconfigdir = filepath.Join(p.Libdir, "pkgconfig")
	}
	return p
}

// inDest prepends the staging directory, if any.
func (p Paths) inDest(path string) string {
	if p.Destdir == "" {
		return path
	}
	return filepath.Join(p.Destdir, path)
}

type copyJob struct {
	src string
	dst string
	// optional files (debug info, def) are skipped when the build did not
	// produce them
	optional bool
}

// installJobs maps the artifact set onto the install layout. Shared
// libraries land in libdir on SharedObject/DynamicLibrary targets;
// Windows-style targets put the DLL in bindir and the import library in
// libdir.
func installJobs(bt *build.BuildTargets, paths Paths, subdir string) []copyJob {
	var jobs []copyJob
	add := func(src, dir string, optional bool) {
		jobs = append(jobs, copyJob{
			src:      src,
			dst:      paths.inDest(filepath.Join(dir, filepath.Base(src))),
			optional: optional,
		})
	}

	jobs = append(jobs, copyJob{src: bt.Pc, dst: paths.inDest(filepath.Join(paths.Pkgconfigdir, filepath.Base(bt.Pc)))})

	if bt.StaticLib != "" {
		add(bt.StaticLib, paths.Libdir, false)
	}
	if bt.SharedLib != "" {
		switch bt.LibType() {
		case build.LibTypeWindows:
			add(bt.SharedLib, paths.Bindir, false)
			if bt.ImplLib != "" {
				add(bt.ImplLib, paths.Libdir, false)
			}
			if bt.Def != "" {
				add(bt.Def, paths.Libdir, true)
			}
		default:
			add(bt.SharedLib, paths.Libdir, false)
		}
	}
	if dst := bt.DebugInfoFileName(paths.Bindir, paths.Libdir); dst != "" {
		jobs = append(jobs, copyJob{src: bt.DebugInfo, dst: paths.inDest(dst), optional: true})
	}

	includedir := filepath.Join(paths.Includedir, subdir)
	if bt.Include != "" {
		add(bt.Include, includedir, false)
	}
	for _, pair := range bt.Extra.Include {
		jobs = append(jobs, copyJob{src: pair.From, dst: paths.inDest(filepath.Join(includedir, pair.To))})
	}
	for _, pair := range bt.Extra.Data {
		jobs = append(jobs, copyJob{src: pair.From, dst: paths.inDest(filepath.Join(paths.Datadir, pair.To))})
	}

	return jobs
}

// Install copies the resolved artifacts into the layout. Copies run in
// parallel; the first failure aborts the install.
func Install(bt *build.BuildTargets, paths Paths, subdir string) error {
	paths = paths.Normalize()
	jobs := installJobs(bt, paths, subdir)

	eg, _ := errgroup.WithContext(context.Background())
	eg.SetLimit(runtime.NumCPU())
	for _, job := range jobs {
		eg.Go(func() error {
			if job.optional {
				if _, err := os.Stat(job.src); err != nil {
					return nil
				}
			}
			msg.Status("Installing", "%s", job.dst)
			return copyFile(job.src, job.dst)
		})
	}
	return eg.Wait()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("install %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("install %s: %w", dst, err)
	}
	return out.Close()
}
