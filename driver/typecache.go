package driver

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"titan/types"
)

// cachedModule is the on-disk shape of a module's checked public type,
// written by WriteTypeCache next to its compiled artifact. The wire format
// pushed into the emitted C's `<module>_types` function is a serialized
// string read by the C-side loader (§6.4); this file is a Go-side record
// that ReadTypeCache reads back. No loader consults it: FilesystemLoader
// always locates and compiles a dependency from its source.
type cachedModule struct {
	Name    string            `yaml:"name"`
	Members map[string]string `yaml:"members"`
}

// WriteTypeCache serializes mod to path as YAML.
func WriteTypeCache(path string, mod *types.Module) error {
	cm := cachedModule{Name: mod.ModName, Members: make(map[string]string, len(mod.Members))}
	for name, t := range mod.Members {
		cm.Members[name] = encodeType(t)
	}
	out, err := yaml.Marshal(cm)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// ReadTypeCache reads back a file written by WriteTypeCache.
func ReadTypeCache(path string) (*types.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cm cachedModule
	if err := yaml.Unmarshal(data, &cm); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cm.Members))
	for name := range cm.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	members := make(map[string]types.Type, len(cm.Members))
	for _, name := range names {
		t, err := decodeType(cm.Members[name])
		if err != nil {
			return nil, fmt.Errorf("type cache %s: member %s: %w", path, name, err)
		}
		members[name] = t
	}
	return &types.Module{ModName: cm.Name, Members: members}, nil
}

// encodeType renders t as a compact, parseable signature: scalars by name,
// "{T}" for arrays, "T?" for options, "@fqtn" for a record reference, and
// "(p1,p2)->(r1,r2)" for a function, mirroring the grammar's own type
// syntax (§6.3) closely enough to stay readable in the cache file.
func encodeType(t types.Type) string {
	switch t := t.(type) {
	case types.Integer:
		return "integer"
	case types.Float:
		return "float"
	case types.Boolean:
		return "boolean"
	case types.String:
		return "string"
	case types.Nil:
		return "nil"
	case types.Value:
		return "value"
	case *types.Array:
		return "{" + encodeType(t.Elem) + "}"
	case *types.Option:
		return encodeType(t.Base) + "?"
	case types.Nominal:
		return "@" + t.FQTN
	case *types.Function:
		params := make([]string, len(t.Params))
		for i, p := range t.Params {
			params[i] = encodeType(p)
		}
		if t.Vararg {
			params = append(params, "...")
		}
		rets := make([]string, len(t.Rets))
		for i, r := range t.Rets {
			rets[i] = encodeType(r)
		}
		return "(" + strings.Join(params, ",") + ")->(" + strings.Join(rets, ",") + ")"
	default:
		return "value"
	}
}

type typeDecoder struct {
	s   string
	pos int
}

func decodeType(s string) (types.Type, error) {
	d := &typeDecoder{s: s}
	t, err := d.parseType()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.s) {
		return nil, fmt.Errorf("trailing input in type signature %q", s)
	}
	return t, nil
}

func (d *typeDecoder) parseType() (types.Type, error) {
	base, err := d.parseAtom()
	if err != nil {
		return nil, err
	}
	for d.pos < len(d.s) && d.s[d.pos] == '?' {
		d.pos++
		base = &types.Option{Base: base}
	}
	return base, nil
}

func (d *typeDecoder) parseAtom() (types.Type, error) {
	if d.pos >= len(d.s) {
		return nil, fmt.Errorf("unexpected end of type signature")
	}
	switch d.s[d.pos] {
	case '{':
		d.pos++
		elem, err := d.parseType()
		if err != nil {
			return nil, err
		}
		if d.pos >= len(d.s) || d.s[d.pos] != '}' {
			return nil, fmt.Errorf("expected '}' closing array type")
		}
		d.pos++
		return &types.Array{Elem: elem}, nil
	case '@':
		d.pos++
		start := d.pos
		for d.pos < len(d.s) && !strings.ContainsRune("?,)}", rune(d.s[d.pos])) {
			d.pos++
		}
		return types.Nominal{FQTN: d.s[start:d.pos]}, nil
	case '(':
		d.pos++
		params, vararg, err := d.parseTypeList(')')
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(d.s[d.pos:], "->(") {
			return nil, fmt.Errorf("expected '->(' after parameter list")
		}
		d.pos += 3
		rets, _, err := d.parseTypeList(')')
		if err != nil {
			return nil, err
		}
		return &types.Function{Params: params, Rets: rets, Vararg: vararg}, nil
	default:
		for _, name := range []string{"integer", "float", "boolean", "string", "nil", "value"} {
			if strings.HasPrefix(d.s[d.pos:], name) {
				d.pos += len(name)
				return scalarByName(name), nil
			}
		}
	}
	return nil, fmt.Errorf("unrecognized type signature at %q", d.s[d.pos:])
}

func scalarByName(name string) types.Type {
	switch name {
	case "integer":
		return types.Integer{}
	case "float":
		return types.Float{}
	case "boolean":
		return types.Boolean{}
	case "string":
		return types.String{}
	case "nil":
		return types.Nil{}
	default:
		return types.Value{}
	}
}

func (d *typeDecoder) parseTypeList(close byte) ([]types.Type, bool, error) {
	var list []types.Type
	vararg := false
	if d.pos < len(d.s) && d.s[d.pos] == close {
		d.pos++
		return list, false, nil
	}
	for {
		if strings.HasPrefix(d.s[d.pos:], "...") {
			d.pos += 3
			vararg = true
		} else {
			t, err := d.parseType()
			if err != nil {
				return nil, false, err
			}
			list = append(list, t)
		}
		if d.pos < len(d.s) && d.s[d.pos] == ',' {
			d.pos++
			continue
		}
		break
	}
	if d.pos >= len(d.s) || d.s[d.pos] != close {
		return nil, false, fmt.Errorf("expected %q closing type list", close)
	}
	d.pos++
	return list, vararg, nil
}
