package build

import "strings"

// PcFile is the rendered pkg-config metadata for an installed library.
type PcFile struct {
	Prefix     string
	Libdir     string
	Includedir string

	Name            string
	Description     string
	Version         string
	Requires        string
	RequiresPrivate string
	LibName         string
}

// NewPcFile fills a pkg-config description from the capi configuration. The
// libdir and includedir are emitted relative to ${prefix} when they live
// under it, following the usual relocatable-package convention.
func NewPcFile(capi *CApiConfig, libName, prefix, libdir, includedir string) *PcFile {
	return &PcFile{
		Prefix:          prefix,
		Libdir:          relocatable(prefix, libdir),
		Includedir:      relocatable(prefix, includedir),
		Name:            capi.PkgConfig.Name,
		Description:     capi.PkgConfig.Description,
		Version:         capi.PkgConfig.Version,
		Requires:        capi.PkgConfig.Requires,
		RequiresPrivate: capi.PkgConfig.RequiresPrivate,
		LibName:         libName,
	}
}

func relocatable(prefix, dir string) string {
	if rest, ok := strings.CutPrefix(dir, prefix); ok {
		return "${prefix}" + rest
	}
	return dir
}

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}
func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

// Render produces the .pc file contents.
func (pc *PcFile) Render() string {
	var sb strings.Builder
	writeln(&sb, "prefix=", pc.Prefix)
	writeln(&sb, "exec_prefix=${prefix}")
	writeln(&sb, "libdir=", pc.Libdir)
	writeln(&sb, "includedir=", pc.Includedir)
	writeln(&sb)
	writeln(&sb, "Name: ", pc.Name)
	writeln(&sb, "Description: ", pc.Description)
	writeln(&sb, "Version: ", pc.Version)
	write(&sb, "Libs: -L${libdir} -l", pc.LibName)
	writeln(&sb)
	writeln(&sb, "Cflags: -I${includedir}")
	if pc.Requires != "" {
		writeln(&sb, "Requires: ", pc.Requires)
	}
	if pc.RequiresPrivate != "" {
		writeln(&sb, "Requires.private: ", pc.RequiresPrivate)
	}
	return sb.String()
}
