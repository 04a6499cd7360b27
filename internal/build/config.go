package build

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/kleisauke/cargo-c/internal/target"
	"github.com/pelletier/go-toml/v2"
)

// Manifest is the parsed Cargo.toml, reduced to the fields this tool cares
// about: the [package] section and the [package.metadata.capi] tree.
type Manifest struct {
	Package PackageSection
	Capi    CApiConfig
}

// PackageSection defines the [package] section
type PackageSection struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description"`
}

// CApiConfig defines the [package.metadata.capi] tree. Every field has a
// default derived from the [package] section, so the tree may be absent
// entirely.
type CApiConfig struct {
	Header    HeaderSection
	PkgConfig PkgConfigSection
	Library   LibrarySection
	Install   InstallSection
}

// HeaderSection defines [package.metadata.capi.header]
type HeaderSection struct {
	Enabled      bool   `toml:"enabled"`
	Generation   bool   `toml:"generation"`
	Name         string `toml:"name"`
	Subdirectory string `toml:"subdirectory"`
}

// PkgConfigSection defines [package.metadata.capi.pkg_config]
type PkgConfigSection struct {
	Filename        string `toml:"filename"`
	Name            string `toml:"name"`
	Description     string `toml:"description"`
	Version         string `toml:"version"`
	Requires        string `toml:"requires"`
	RequiresPrivate string `toml:"requires_private"`
}

// LibrarySection defines [package.metadata.capi.library]
type LibrarySection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// InstallSection holds the declared extra install targets, headers and data
// separately, in declaration order.
type InstallSection struct {
	Include []InstallTarget
	Data    []InstallTarget
}

// installClass is the TOML shape of [package.metadata.capi.install.include]
// and .data: one list of asset entries, one of generated entries.
type installClass struct {
	Asset     []InstallTargetPaths `toml:"asset"`
	Generated []InstallTargetPaths `toml:"generated"`
}

type installSectionToml struct {
	Include installClass `toml:"include"`
	Data    installClass `toml:"data"`
}

func (c installClass) targets() []InstallTarget {
	targets := make([]InstallTarget, 0, len(c.Asset)+len(c.Generated))
	for _, paths := range c.Asset {
		targets = append(targets, InstallTarget{Paths: paths})
	}
	for _, paths := range c.Generated {
		targets = append(targets, InstallTarget{Paths: paths, Generated: true})
	}
	return targets
}

// libName returns the C library name for a crate: crate names use hyphens,
// library names use underscores.
func libName(pkg *PackageSection) string {
	return strings.ReplaceAll(pkg.Name, "-", "_")
}

func defaultCApiConfig(pkg *PackageSection) CApiConfig {
	name := libName(pkg)
	return CApiConfig{
		Header: HeaderSection{
			Enabled:    true,
			Generation: true,
			Name:       name,
		},
		PkgConfig: PkgConfigSection{
			Filename:    name,
			Name:        name,
			Description: pkg.Description,
			Version:     pkg.Version,
		},
		Library: LibrarySection{
			Name:    name,
			Version: pkg.Version,
		},
	}
}

func mustMarshal(v any) string {
	b, err := toml.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// unmarshalSection is a helper to parse one section of a raw config map
func unmarshalSection(rawCfg map[string]any, name string, dst any) error {
	if data, ok := rawCfg[name]; ok {
		if err := toml.Unmarshal([]byte(mustMarshal(data)), dst); err != nil {
			return fmt.Errorf("failed to parse [%s] section: %w", name, err)
		}
	}
	return nil
}

// lookupTable walks nested tables by key, returning nil when any level is
// missing or not a table.
func lookupTable(rawCfg map[string]any, keys ...string) map[string]any {
	cur := rawCfg
	for _, key := range keys {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// ParseManifest parses a Cargo.toml. Strings inside the capi metadata tree
// may contain {{...}} expressions, evaluated against env before unmarshaling.
func ParseManifest(rdr io.Reader, env ConfigEnv) (*Manifest, error) {
	var rawConfig map[string]any
	dec := toml.NewDecoder(rdr)
	if err := dec.Decode(&rawConfig); err != nil {
		if derr, ok := err.(*toml.DecodeError); ok {
			return nil, errors.New(derr.String())
		}
		return nil, err
	}

	m := new(Manifest)
	if err := unmarshalSection(rawConfig, "package", &m.Package); err != nil {
		return nil, err
	}
	if m.Package.Name == "" {
		return nil, errors.New("manifest has no [package] name")
	}

	m.Capi = defaultCApiConfig(&m.Package)

	capiRaw := lookupTable(rawConfig, "package", "metadata", "capi")
	if capiRaw == nil {
		return m, nil
	}

	processed, err := processExpressions(capiRaw, env)
	if err != nil {
		return nil, fmt.Errorf("error processing expressions in capi metadata: %w", err)
	}
	capiRaw = processed.(map[string]any)

	if err := unmarshalSection(capiRaw, "header", &m.Capi.Header); err != nil {
		return nil, err
	}
	if err := unmarshalSection(capiRaw, "pkg_config", &m.Capi.PkgConfig); err != nil {
		return nil, err
	}
	if err := unmarshalSection(capiRaw, "library", &m.Capi.Library); err != nil {
		return nil, err
	}

	var install installSectionToml
	if err := unmarshalSection(capiRaw, "install", &install); err != nil {
		return nil, err
	}
	m.Capi.Install.Include = install.Include.targets()
	m.Capi.Install.Data = install.Data.targets()

	return m, nil
}

// LoadManifest parses a Cargo.toml from a filepath
func LoadManifest(path string, env ConfigEnv) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseManifest(bufio.NewReader(f), env)
}

//
// expr-lang helpers
//

var exprRegex = regexp.MustCompile(`\{\{(.+?)\}\}`)

// ConfigEnv is the environment visible to {{...}} expressions in the capi
// metadata tree.
type ConfigEnv struct {
	TargetOS   string            `expr:"target_os"`
	TargetEnv  string            `expr:"target_env"`
	TargetArch string            `expr:"target_arch"`
	Environ    map[string]string `expr:"environ"`
}

func NewConfigEnv(t *target.Target) ConfigEnv {
	environ := make(map[string]string)
	for _, e := range os.Environ() {
		if i := strings.Index(e, "="); i >= 0 {
			environ[e[:i]] = e[i+1:]
		}
	}

	return ConfigEnv{
		TargetOS:   t.OS,
		TargetEnv:  t.Env,
		TargetArch: t.Arch,
		Environ:    environ,
	}
}

// evaluateString finds and evaluates all {{...}} expressions in a string
func evaluateString(s string, env ConfigEnv) (string, error) {
	matches := exprRegex.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	var builder strings.Builder
	lastIndex := 0

	for _, matchIndexes := range matches {
		fullMatchStart := matchIndexes[0]
		fullMatchEnd := matchIndexes[1]
		expressionStart := matchIndexes[2]
		expressionEnd := matchIndexes[3]

		builder.WriteString(s[lastIndex:fullMatchStart])

		expression := strings.TrimSpace(s[expressionStart:expressionEnd])
		program, err := expr.Compile(expression, expr.Env(env))
		if err != nil {
			return "", fmt.Errorf("failed to compile expression %q: %w", expression, err)
		}

		result, err := expr.Run(program, env)
		if err != nil {
			return "", fmt.Errorf("failed to run expression %q: %w", expression, err)
		}

		builder.WriteString(fmt.Sprintf("%v", result))
		lastIndex = fullMatchEnd
	}

	builder.WriteString(s[lastIndex:])

	return builder.String(), nil
}

// processExpressions recursively walks parsed TOML data and evaluates
// expressions in strings
func processExpressions(data any, env ConfigEnv) (any, error) {
	switch v := data.(type) {
	case map[string]any:
		for key, val := range v {
			processedVal, err := processExpressions(val, env)
			if err != nil {
				return nil, err
			}
			v[key] = processedVal
		}
		return v, nil
	case []any:
		for i, item := range v {
			processedItem, err := processExpressions(item, env)
			if err != nil {
				return nil, err
			}
			v[i] = processedItem
		}
		return v, nil
	case string:
		return evaluateString(v, env)
	default:
		return data, nil
	}
}
