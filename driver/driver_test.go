package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titan/driver"
	"titan/types"
)

func TestResolveEnvPathDefaultsWhenUnset(t *testing.T) {
	dirs := driver.ResolveEnvPath(func(string) string { return "" })
	assert.Equal(t, []string{".", "/usr/local/lib/titan/0.5"}, dirs)
}

func TestResolveEnvPathVersionedWinsOverUnversioned(t *testing.T) {
	env := map[string]string{
		"TITAN_PATH_0_5": "/versioned",
		"TITAN_PATH":     "/unversioned",
	}
	dirs := driver.ResolveEnvPath(func(k string) string { return env[k] })
	assert.Equal(t, []string{"/versioned"}, dirs)
}

func TestResolveEnvPathSplicesDefaultOnDoubleSemicolon(t *testing.T) {
	env := map[string]string{"TITAN_PATH": "/one;;/two"}
	dirs := driver.ResolveEnvPath(func(k string) string { return env[k] })
	assert.Equal(t, []string{"/one", ".", "/usr/local/lib/titan/0.5", "/two"}, dirs)
}

func TestModuleRelPathReplacesDotsWithSlashes(t *testing.T) {
	assert.Equal(t, "foo/bar.titan", driver.ModuleRelPath("foo.bar", "titan"))
	assert.Equal(t, "foo/bar.so", driver.ModuleRelPath("foo.bar", "so"))
}

func TestFindOnPathReturnsFirstMatch(t *testing.T) {
	exists := func(candidate string) bool { return candidate == "/two/foo.titan" }
	found, ok := driver.FindOnPath([]string{"/one", "/two"}, "foo.titan", exists)
	require.True(t, ok)
	assert.Equal(t, "/two/foo.titan", found)
}

func TestFindOnPathReportsMiss(t *testing.T) {
	_, ok := driver.FindOnPath([]string{"/one"}, "foo.titan", func(string) bool { return false })
	assert.False(t, ok)
}

func TestSessionCompileModuleEmitsEntryPoints(t *testing.T) {
	s := driver.NewSession(nil, nil)
	result, diags := s.CompileModule("m", "m.titan", []byte(`
function add(a: integer, b: integer): integer
	return a + b
end
`))
	require.Empty(t, diags)
	assert.Contains(t, result.C, "m_add_titan")
	assert.Contains(t, result.C, "m_add_lua")
	assert.Contains(t, result.C, "luaopen_m")
}

func TestSessionLoadResolvesImportedModule(t *testing.T) {
	source := driver.InMemoryLoader{
		"other": "function g(): integer return 1 end\n",
	}
	s := driver.NewSession(source, nil)
	result, diags := s.CompileModule("m", "m.titan", []byte(`
local other = import "other"

function f(): integer
	return other.g()
end
`))
	require.Empty(t, diags)
	assert.Contains(t, result.C, "titan_require(L")
	assert.Contains(t, result.C, "_import_other")
}

func TestSessionLoadDetectsCircularImport(t *testing.T) {
	source := driver.InMemoryLoader{
		"a": `local b = import "b"` + "\n",
		"b": `local a = import "a"` + "\n",
	}
	s := driver.NewSession(source, nil)
	_, diags := s.CompileModule("a", "a.titan", []byte(source["a"]))
	require.NotEmpty(t, diags)
	assert.Contains(t, diags.Error(), "circular reference to module")
}

func TestSessionLoadCachesAcrossImporters(t *testing.T) {
	source := driver.InMemoryLoader{
		"shared": "function one(): integer return 1 end\n",
	}
	s := driver.NewSession(source, nil)

	_, diags := s.CompileModule("left", "left.titan", []byte(`
local shared = import "shared"
function f(): integer return shared.one() end
`))
	require.Empty(t, diags)

	_, diags = s.CompileModule("right", "right.titan", []byte(`
local shared = import "shared"
function g(): integer return shared.one() end
`))
	require.Empty(t, diags)
}

type fakeToolchain struct {
	calls []toolchainCall
	err   error
}

type toolchainCall struct {
	source, output string
	opts           driver.CompileOptions
}

func (f *fakeToolchain) Compile(sourcePath, outputPath string, opts driver.CompileOptions) error {
	f.calls = append(f.calls, toolchainCall{sourcePath, outputPath, opts})
	return f.err
}

func TestBuildWritesSourceAndInvokesToolchain(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "m")
	tc := &fakeToolchain{}
	s := driver.NewSession(nil, tc)

	out, err := s.Build("m", base+".titan", []byte(`
function f(): integer return 1 end
`), driver.BuildOptions{OutputPath: base, IncludeDirs: []string{"/usr/include/titan"}})
	require.NoError(t, err)
	assert.Equal(t, base+".so", out)

	require.Len(t, tc.calls, 1)
	assert.Equal(t, base+".c", tc.calls[0].source)
	assert.Equal(t, base+".so", tc.calls[0].output)
	assert.True(t, tc.calls[0].opts.Shared)
	assert.Contains(t, tc.calls[0].opts.IncludeDirs, "/usr/include/titan")

	_, err = os.Stat(base + ".c")
	assert.NoError(t, err)

	cached, err := driver.ReadTypeCache(base + ".titantypes.yaml")
	require.NoError(t, err)
	assert.Equal(t, "m", cached.ModName)
	assert.Contains(t, cached.Members, "f")
}

func TestBuildPreservesGeneratedCOnToolchainFailure(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "m")
	tc := &fakeToolchain{err: assert.AnError}
	s := driver.NewSession(nil, tc)

	_, err := s.Build("m", base+".titan", []byte(`
function f(): integer return 1 end
`), driver.BuildOptions{OutputPath: base})
	require.Error(t, err)

	_, statErr := os.Stat(base + ".c")
	assert.NoError(t, statErr, "generated C source must survive a toolchain failure for debugging")
	_, statErr = os.Stat(base + ".titantypes.yaml")
	assert.Error(t, statErr, "type cache should not be written when the toolchain fails")
}

func TestBuildProgramLinksModulesAndEntrypoint(t *testing.T) {
	dir := t.TempDir()
	tc := &fakeToolchain{}
	s := driver.NewSession(nil, tc)

	mainPath := filepath.Join(dir, "main")
	out, err := s.BuildProgram("main", []driver.ModuleSource{
		{Name: "main", Path: mainPath + ".titan", Source: []byte(`
function main() end
`), OutputBase: mainPath},
	}, driver.BuildOptions{OutputPath: filepath.Join(dir, "main_exe")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main_exe"), out)

	require.Len(t, tc.calls, 2)
	assert.True(t, tc.calls[0].opts.ObjectOnly)
	assert.Equal(t, mainPath+".o", tc.calls[0].output)
	assert.Contains(t, tc.calls[1].opts.RuntimeObjects, mainPath+".o")

	entrypoint := "main__entrypoint.c"
	data, err := os.ReadFile(entrypoint)
	require.NoError(t, err)
	defer os.Remove(entrypoint)
	assert.Contains(t, string(data), "luaopen_main")
	assert.Contains(t, string(data), `require`)
}

func TestWriteEntrypointRegistersEveryModule(t *testing.T) {
	out := driver.WriteEntrypoint("app.main", []string{"app.main", "app.util"})
	assert.Contains(t, out, "luaopen_app_main")
	assert.Contains(t, out, "luaopen_app_util")
	assert.Contains(t, out, `lua_pushstring(L, "app.main")`)
	assert.Contains(t, out, `lua_getfield(L, -1, "main")`)
}

func TestTypeCacheRoundTripsFunctionAndArrayTypes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.yaml")
	mod := &types.Module{
		ModName: "m",
		Members: map[string]types.Type{
			"count": types.Integer{},
			"items": &types.Array{Elem: types.String{}},
			"maybe": &types.Option{Base: types.Float{}},
			"apply": &types.Function{
				Params: []types.Type{types.Integer{}, types.Nominal{FQTN: "m.Point"}},
				Rets:   []types.Type{types.Boolean{}},
			},
		},
	}
	require.NoError(t, driver.WriteTypeCache(path, mod))

	got, err := driver.ReadTypeCache(path)
	require.NoError(t, err)
	assert.Equal(t, "m", got.ModName)
	for name, want := range mod.Members {
		require.Contains(t, got.Members, name)
		assert.True(t, types.Equal(want, got.Members[name]), "member %s: want %s, got %s", name, want, got.Members[name])
	}
}

func TestFilesystemLoaderFindsSourceOnPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "foo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo", "bar.titan"), []byte("function f() end\n"), 0o644))

	l := driver.FilesystemLoader{Dirs: []string{t.TempDir(), dir}}
	path, src, err := l.Locate("foo.bar")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "foo", "bar.titan"), path)
	assert.Contains(t, string(src), "function f()")
}

func TestLoadConfigAppliesIncludeDirsAndObjectSuffix(t *testing.T) {
	dir := t.TempDir()
	propsPath := filepath.Join(dir, "titan.properties")
	require.NoError(t, os.WriteFile(propsPath, []byte(
		"include_dirs = /extra/one"+string(os.PathListSeparator)+"/extra/two\n"+
			"object_suffix = .titanmod\n",
	), 0o644))

	base := filepath.Join(dir, "m")
	tc := &fakeToolchain{}
	s := driver.NewSession(nil, tc)
	require.NoError(t, s.LoadConfig(propsPath))

	out, err := s.Build("m", base+".titan", []byte(`
function f(): integer return 1 end
`), driver.BuildOptions{OutputPath: base, IncludeDirs: []string{"/explicit"}})
	require.NoError(t, err)
	assert.Equal(t, base+".titanmod", out)

	require.Len(t, tc.calls, 1)
	assert.Contains(t, tc.calls[0].opts.IncludeDirs, "/explicit")
	assert.Contains(t, tc.calls[0].opts.IncludeDirs, "/extra/one")
	assert.Contains(t, tc.calls[0].opts.IncludeDirs, "/extra/two")
}

func TestLoadConfigMissingFileIsNotAnError(t *testing.T) {
	s := driver.NewSession(nil, nil)
	require.NoError(t, s.LoadConfig(filepath.Join(t.TempDir(), "absent.properties")))
}

func TestLoadConfigOverridesToolchainCC(t *testing.T) {
	dir := t.TempDir()
	propsPath := filepath.Join(dir, "titan.properties")
	require.NoError(t, os.WriteFile(propsPath, []byte("toolchain.cc = /opt/cross/bin/cc\n"), 0o644))

	tc := &driver.ExecToolchain{}
	s := driver.NewSession(nil, tc)
	require.NoError(t, s.LoadConfig(propsPath))
	assert.Equal(t, "/opt/cross/bin/cc", tc.CC)
}

func TestFilesystemLoaderReportsMissingModule(t *testing.T) {
	l := driver.FilesystemLoader{Dirs: []string{t.TempDir()}}
	_, _, err := l.Locate("nope")
	assert.Error(t, err)
}
