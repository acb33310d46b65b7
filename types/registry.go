package types

import "fmt"

// Registry maps a fully qualified type name (§ glossary: "Module.RecordName")
// to its Record definition. Design note (§9 "Global mutable state"): the
// source keeps one of these for the whole process; here it is a plain value
// owned by whichever driver.Session is compiling, so tests and concurrent
// sessions never share it. Populated monotonically by the checker and never
// deleted within a session (§5).
type Registry struct {
	records map[string]*Record
}

func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// FQTN builds a fully qualified type name from a module name and a local
// record name.
func FQTN(module, name string) string {
	return fmt.Sprintf("%s.%s", module, name)
}

// Define installs (or overwrites, for pass-1 forward declarations) the
// Record for fqtn. Two modules referring to the same fqtn resolve to the
// exact same *Record afterwards (§3 invariant, §9 design note).
func (r *Registry) Define(fqtn string, rec *Record) {
	r.records[fqtn] = rec
}

// Lookup returns the Record registered for fqtn, or nil if none has been
// defined yet — callers that only have a Nominal reference and need the
// shape (e.g. to check a field access) call this at the use site, per §9's
// "refer by name ... resolve at use sites" design note.
func (r *Registry) Lookup(fqtn string) *Record {
	return r.records[fqtn]
}

// Has reports whether fqtn has been defined.
func (r *Registry) Has(fqtn string) bool {
	_, ok := r.records[fqtn]
	return ok
}
