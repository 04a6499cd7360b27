package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kleisauke/cargo-c/internal/target"
)

// InstallPair maps a file on disk to its destination path relative to the
// install directory for its class.
type InstallPair struct {
	From string
	To   string
}

// InstallTargetPaths is a from/to pattern pair. From may be a doublestar
// glob; every match is installed under To, keeping its path relative to the
// pattern's fixed prefix.
type InstallTargetPaths struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// InstallTarget declares one extra file set to install. Asset targets name
// files already present in the source tree; Generated targets name files
// that appear under the build output directory once built.
type InstallTarget struct {
	Paths     InstallTargetPaths
	Generated bool
}

// InstallPaths expands the from pattern against root. A pattern without
// glob metacharacters names exactly one file; globs may expand to any
// number of pairs, in lexical order.
func (p InstallTargetPaths) InstallPaths(root string) ([]InstallPair, error) {
	pattern := filepath.ToSlash(p.From)
	base, glob := doublestar.SplitPattern(pattern)

	if !strings.ContainsAny(glob, "*?[{") {
		src := filepath.Join(root, filepath.FromSlash(pattern))
		return []InstallPair{{From: src, To: filepath.Join(p.To, filepath.Base(src))}}, nil
	}

	fsys := os.DirFS(filepath.Join(root, filepath.FromSlash(base)))
	matches, err := doublestar.Glob(fsys, glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid install pattern %q: %w", p.From, err)
	}

	pairs := make([]InstallPair, 0, len(matches))
	for _, match := range matches {
		rel := filepath.FromSlash(match)
		pairs = append(pairs, InstallPair{
			From: filepath.Join(root, filepath.FromSlash(base), rel),
			To:   filepath.Join(p.To, rel),
		})
	}
	return pairs, nil
}

// ExtraTargets collects the user-declared headers and data files to install
// alongside the library artifacts. Rebuilt from scratch on every Setup call.
type ExtraTargets struct {
	Include []InstallPair
	Data    []InstallPair
}

// Setup resolves the configured install declarations. Asset declarations
// resolve against rootDir; Generated declarations against outDir, or are
// skipped when outDir is empty because nothing has been built yet.
func (e *ExtraTargets) Setup(capi *CApiConfig, rootDir, outDir string) error {
	include, err := resolveExtraTargets(capi.Install.Include, rootDir, outDir)
	if err != nil {
		return err
	}
	data, err := resolveExtraTargets(capi.Install.Data, rootDir, outDir)
	if err != nil {
		return err
	}
	e.Include = include
	e.Data = data
	return nil
}

func resolveExtraTargets(targets []InstallTarget, rootPath, rootOutput string) ([]InstallPair, error) {
	var pairs []InstallPair
	for _, t := range targets {
		root := rootPath
		if t.Generated {
			if rootOutput == "" {
				continue
			}
			root = rootOutput
		}
		expanded, err := t.Paths.InstallPaths(root)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, expanded...)
	}
	return pairs, nil
}

// LibraryTypes selects which library artifacts the caller wants built.
type LibraryTypes struct {
	Staticlib bool
	Cdylib    bool
}

// BuildTargets is the resolved set of output paths for one build of one
// library on one target. Optional paths are empty when the library type was
// not requested or the platform convention defines no such artifact.
type BuildTargets struct {
	Name      string
	Include   string
	StaticLib string
	SharedLib string
	ImplLib   string
	DebugInfo string
	Def       string
	Pc        string
	Target    *target.Target
	Extra     ExtraTargets
}

func NewBuildTargets(name string, t *target.Target, targetdir string, libraryTypes LibraryTypes, capi *CApiConfig) (*BuildTargets, error) {
	pc := filepath.Join(targetdir, capi.PkgConfig.Filename+".pc")

	var include string
	if capi.Header.Enabled && capi.Header.Generation {
		base := strings.TrimSuffix(capi.Header.Name, filepath.Ext(capi.Header.Name))
		include = filepath.Join(targetdir, base+".h")
	}

	// The naming table is consulted even when neither library type was
	// requested: the import library, debug info and def file candidates
	// are needed later regardless of the selection.
	names, err := fileNamesFromTarget(t, name, targetdir)
	if err != nil {
		return nil, err
	}

	bt := &BuildTargets{
		Name:      name,
		Include:   include,
		ImplLib:   names.implLib,
		DebugInfo: names.debugInfo,
		Def:       names.def,
		Pc:        pc,
		Target:    t,
	}
	if libraryTypes.Staticlib {
		bt.StaticLib = names.staticLib
	}
	if libraryTypes.Cdylib {
		bt.SharedLib = names.sharedLib
	}
	return bt, nil
}

// DebugInfoFileName returns where the debug-info file, if any, belongs once
// installed: next to the DLL in bindir on Windows-style targets, in libdir
// everywhere else. Returns "" when the platform has no separate debug-info
// artifact, which is the normal case outside windows-msvc.
func (bt *BuildTargets) DebugInfoFileName(bindir, libdir string) string {
	if bt.DebugInfo == "" {
		return ""
	}
	switch bt.LibType() {
	case LibTypeWindows:
		return filepath.Join(bindir, filepath.Base(bt.DebugInfo))
	default:
		return filepath.Join(libdir, filepath.Base(bt.DebugInfo))
	}
}
