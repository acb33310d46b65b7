// Package symtab implements the lexically scoped symbol table of §4.3: a
// stack of frames searched innermost-out, plus a flat foreign-type
// namespace and the current module name used to build fully qualified type
// names for nominal records declared in this module.
package symtab

// Decl is any AST declaration node a name can resolve to: *ast.TopLevelVar,
// *ast.TopLevelFunc, *ast.Param, or a synthetic local-declaration marker
// the checker builds for `local` statements. Kept as interface{} here (the
// way the teacher's Scope keeps TypeId as an opaque handle) so this package
// has no import-cycle dependency on ast or checker.
type Decl interface{}

type frame struct {
	names map[string]Decl
}

func newFrame() *frame {
	return &frame{names: make(map[string]Decl)}
}

// Table is the lexically scoped symbol table (§4.3). ModuleName is set once
// at construction and never mutated; it is used to build FQTNs for records
// declared in this module.
type Table struct {
	frames       []*frame
	foreignTypes map[string]Decl
	ModuleName   string
}

// New creates a table with one open frame (the module's top-level scope)
// and the given module name.
func New(moduleName string) *Table {
	return &Table{
		frames:       []*frame{newFrame()},
		foreignTypes: make(map[string]Decl),
		ModuleName:   moduleName,
	}
}

// Open pushes a new, empty innermost frame (entering a block/function body).
func (t *Table) Open() {
	t.frames = append(t.frames, newFrame())
}

// Close pops the innermost frame. It panics if called with only the
// top-level frame remaining, since that would unbalance Open/Close and is
// always a compiler bug rather than a user error.
func (t *Table) Close() {
	if len(t.frames) <= 1 {
		panic("symtab: Close called with no open scope")
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Add installs name in the innermost frame, overwriting any binding from an
// enclosing frame (shadowing) but not checking for a duplicate in the
// innermost frame — call FindDup first if that check matters.
func (t *Table) Add(name string, decl Decl) {
	t.innermost().names[name] = decl
}

// Find searches innermost-out and returns the first binding found.
func (t *Table) Find(name string) (Decl, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if d, ok := t.frames[i].names[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// FindDup searches only the innermost frame, used to detect a duplicate
// declaration within the same scope (§4.3, §4.4 pass 1).
func (t *Table) FindDup(name string) (Decl, bool) {
	d, ok := t.innermost().names[name]
	return d, ok
}

// AddForeignType registers a foreign type name in the flat foreign-type
// namespace (§4.3: "a separate flat mapping holds foreign type names
// registered by foreign imports").
func (t *Table) AddForeignType(name string, decl Decl) {
	t.foreignTypes[name] = decl
}

// FindForeignType looks up a foreign type name.
func (t *Table) FindForeignType(name string) (Decl, bool) {
	d, ok := t.foreignTypes[name]
	return d, ok
}

// Depth returns the number of currently open frames (1 at the top level).
func (t *Table) Depth() int {
	return len(t.frames)
}

func (t *Table) innermost() *frame {
	return t.frames[len(t.frames)-1]
}
