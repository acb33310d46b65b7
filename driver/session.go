// Package driver implements §4.7: it owns the process-wide state of one
// compilation run (the type registry and the loader memoization table of
// §5), drives the lexer/parser/checker/upvalues/coder pipeline per module,
// and hands the emitted C off to an external toolchain. Grounded on the
// teacher's cmd/wallc/main.go for pipeline sequencing (read source, parse,
// check, lower, emit, in that order, checking errors at each step) and on
// pontaoski-tawago/main.go for driving an external C compiler as a
// subprocess and reading a project metadata file up front.
package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/magiconair/properties"

	"titan/ast"
	"titan/checker"
	"titan/coder"
	"titan/parser"
	"titan/titanerr"
	"titan/types"
	"titan/upvalues"
)

// Session is a single compilation run's shared state (§5, "shared
// resources"). Two tables are process-wide by the letter of that section;
// here they are fields of one value instead, so two independent runs (as
// in a test suite) never share state. Session implements checker.Loader
// directly: the checker asks Session to resolve an import, and Session
// recursively compiles the target module if it hasn't been seen yet.
type Session struct {
	Registry  *types.Registry
	Toolchain Toolchain
	Config    *properties.Properties

	source Loader
	diags  titanerr.List

	// cache and inProgress together are the loader memoization table of
	// §5: a finished module's type, or a sentinel marking that its check
	// is still running (a cycle) so recursive Load calls can report it.
	cache      map[string]*types.Module
	inProgress map[string]bool
}

// NewSession constructs a Session over the given module-source resolver
// and C toolchain. Both are collaborators reached only through their
// interfaces, per §4.7.
func NewSession(source Loader, toolchain Toolchain) *Session {
	return &Session{
		Registry:   types.NewRegistry(),
		Toolchain:  toolchain,
		source:     source,
		cache:      make(map[string]*types.Module),
		inProgress: make(map[string]bool),
	}
}

// LoadConfig reads an optional titan.properties file (build-scoped
// overrides for the toolchain's include directories, object suffix, and
// so on). A missing file is not an error, mirroring the tolerant loading
// pattern of properties files elsewhere in the ecosystem.
func (s *Session) LoadConfig(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return err
	}
	s.Config = p
	if cc, ok := s.Config.Get("toolchain.cc"); ok {
		if et, ok := s.Toolchain.(*ExecToolchain); ok {
			et.CC = cc
		}
	}
	return nil
}

// configIncludeDirs returns the extra "-I" directories a titan.properties
// file's "include_dirs" key requests, on top of whatever a build call
// passes explicitly through BuildOptions.
func (s *Session) configIncludeDirs() []string {
	if s.Config == nil {
		return nil
	}
	v := s.Config.GetString("include_dirs", "")
	if v == "" {
		return nil
	}
	return strings.Split(v, string(os.PathListSeparator))
}

// configObjectSuffix returns titan.properties' "object_suffix" override for
// the shared object extension Build produces, defaulting to §6.5's ".so".
func (s *Session) configObjectSuffix() string {
	if s.Config == nil {
		return ".so"
	}
	return s.Config.GetString("object_suffix", ".so")
}

// Diagnostics returns every diagnostic accumulated across Load calls made
// during this session, in the order modules were compiled.
func (s *Session) Diagnostics() titanerr.List { return s.diags }

// Load implements checker.Loader. A cache hit returns immediately; an
// in-progress module (found on the call stack of an outer Load) is a
// circular import, reported the way §4.7 requires: "a loader MUST detect
// and report a cycle by returning a synthetic 'circular reference' error
// when called recursively for the same module."
func (s *Session) Load(module string) (*types.Module, error) {
	if m, ok := s.cache[module]; ok {
		return m, nil
	}
	if s.inProgress[module] {
		return nil, fmt.Errorf("circular reference to module %q: it imports itself, directly or indirectly", module)
	}
	if s.source == nil {
		return nil, fmt.Errorf("module not found: %s", module)
	}
	path, src, err := s.source.Locate(module)
	if err != nil {
		return nil, err
	}

	s.inProgress[module] = true
	defer delete(s.inProgress, module)

	result, diags := s.CompileModule(module, path, src)
	if diags.HasErrors() {
		s.diags = append(s.diags, diags...)
		return nil, diags
	}
	s.cache[module] = result.Module
	return result.Module, nil
}

// CompileResult is one module's output from a single pipeline run: its
// checked public type (for importers), the emitted C translation unit,
// and the checked AST (kept for callers that print it, e.g. with
// prettyprint.Types).
type CompileResult struct {
	Module *types.Module
	C      string
	Prog   *ast.Program
}

// CompileModule drives the full pipeline for one module's source text:
// lex+parse, check (against this session's shared registry, resolving
// imports through Session itself), assign upvalue/global slots, and emit
// C. It does not write anything to disk or invoke the toolchain; Build
// does that.
func (s *Session) CompileModule(module, filename string, source []byte) (*CompileResult, titanerr.List) {
	prog, err := parser.ParseSource(filename, source)
	if err != nil {
		return nil, asDiagnostics(filename, err)
	}

	chk := checker.New(module, s.Registry, s)
	modType, diags := chk.Check(prog)
	if diags.HasErrors() {
		return nil, diags
	}

	upvalues.Run(module, prog)

	out, err := coder.New(module).Emit(prog)
	if err != nil {
		return nil, asDiagnostics(filename, err)
	}

	return &CompileResult{Module: modType, C: out, Prog: prog}, nil
}

func asDiagnostics(filename string, err error) titanerr.List {
	if e, ok := err.(titanerr.Error); ok {
		return titanerr.List{e}
	}
	if l, ok := err.(titanerr.List); ok {
		return l
	}
	return titanerr.List{titanerr.New(titanerr.Pos{Filename: filename}, "%s", err)}
}
