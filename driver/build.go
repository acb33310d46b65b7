package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BuildOptions configures one call to Build/BuildProgram: where the
// artifact lands (§6.1's -o/--output) and what the toolchain needs to
// find the host runtime's headers and fixed object files.
type BuildOptions struct {
	OutputPath     string
	IncludeDirs    []string
	RuntimeObjects []string
}

// Build compiles one module to a loadable shared object (§6.5): the
// generated C lands at <path>.c unconditionally, and only on toolchain
// success is <path>.so produced and the module's checked type cached
// alongside it. On failure the .c is left in place for debugging, per
// §5's "Resource lifetimes" paragraph.
func (s *Session) Build(module, sourcePath string, source []byte, opts BuildOptions) (string, error) {
	result, diags := s.CompileModule(module, sourcePath, source)
	if diags.HasErrors() {
		return "", diags
	}

	base := opts.OutputPath
	if base == "" {
		base = strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	}
	cPath := base + ".c"
	if err := os.WriteFile(cPath, []byte(result.C), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", cPath, err)
	}
	if s.Toolchain == nil {
		return "", fmt.Errorf("no toolchain configured to compile %s", cPath)
	}

	soPath := base + s.configObjectSuffix()
	if err := s.Toolchain.Compile(cPath, soPath, CompileOptions{
		Shared:         true,
		IncludeDirs:    append(append([]string{}, opts.IncludeDirs...), s.configIncludeDirs()...),
		RuntimeObjects: opts.RuntimeObjects,
	}); err != nil {
		return "", err
	}

	if err := WriteTypeCache(base+".titantypes.yaml", result.Module); err != nil {
		return "", fmt.Errorf("writing type cache for %s: %w", module, err)
	}
	return soPath, nil
}

// ModuleSource is one module's already-located source text, as gathered
// by whatever discovers a program's transitive import graph before
// BuildProgram links it. Locating that graph is outside this package's
// scope: §4.7 reaches on-disk module discovery only through the Loader
// interface, and a program build's caller is expected to have already
// resolved every module it wants linked in.
type ModuleSource struct {
	Name       string
	Path       string
	Source     []byte
	OutputBase string
}

// BuildProgram links a compiled main module and its already-resolved
// dependencies into one standalone executable (§4.7, §6.5): each module
// compiles to a .o, a synthesized <main>__entrypoint.c registers their
// luaopen_* functions and requires the main module, and the toolchain
// links everything into a binary named after the main module.
func (s *Session) BuildProgram(mainModule string, modules []ModuleSource, opts BuildOptions) (string, error) {
	if s.Toolchain == nil {
		return "", fmt.Errorf("no toolchain configured")
	}

	var objects []string
	for _, m := range modules {
		base := m.OutputBase
		if base == "" {
			base = strings.TrimSuffix(m.Path, filepath.Ext(m.Path))
		}
		result, diags := s.CompileModule(m.Name, m.Path, m.Source)
		if diags.HasErrors() {
			return "", diags
		}
		cPath := base + ".c"
		if err := os.WriteFile(cPath, []byte(result.C), 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", cPath, err)
		}
		oPath := base + ".o"
		if err := s.Toolchain.Compile(cPath, oPath, CompileOptions{
			ObjectOnly:  true,
			IncludeDirs: append(append([]string{}, opts.IncludeDirs...), s.configIncludeDirs()...),
		}); err != nil {
			return "", err
		}
		objects = append(objects, oPath)
	}

	entrypointPath := mainModule + "__entrypoint.c"
	moduleNames := make([]string, len(modules))
	for i, m := range modules {
		moduleNames[i] = m.Name
	}
	if err := os.WriteFile(entrypointPath, []byte(WriteEntrypoint(mainModule, moduleNames)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", entrypointPath, err)
	}

	exePath := opts.OutputPath
	if exePath == "" {
		exePath = mainModule
	}
	runtimeObjects := append(append([]string{}, objects...), opts.RuntimeObjects...)
	if err := s.Toolchain.Compile(entrypointPath, exePath, CompileOptions{
		IncludeDirs:    append(append([]string{}, opts.IncludeDirs...), s.configIncludeDirs()...),
		RuntimeObjects: runtimeObjects,
	}); err != nil {
		return "", err
	}
	return exePath, nil
}
