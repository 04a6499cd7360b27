package build

// LibType is the coarse install category of the produced library.
type LibType int

const (
	// LibTypeSo is an ELF-style shared object (Linux, BSDs, ...)
	LibTypeSo LibType = iota
	// LibTypeDylib is a Mach-O dynamic library (Apple platforms)
	LibTypeDylib
	// LibTypeWindows is a DLL with import library and friends
	LibTypeWindows
)

// LibType classifies the constructed artifact set: an import library or a
// module-definition file marks a Windows-style layout, otherwise the OS
// family decides between ELF and Mach-O conventions.
func (bt *BuildTargets) LibType() LibType {
	if bt.ImplLib != "" || bt.Def != "" {
		return LibTypeWindows
	}
	switch bt.Target.OS {
	case "macos", "ios", "tvos", "visionos":
		return LibTypeDylib
	default:
		return LibTypeSo
	}
}
