package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"titan/symtab"
)

func TestFindInnermostOut(t *testing.T) {
	tab := symtab.New("mod")
	tab.Add("x", "outer")
	tab.Open()
	tab.Add("x", "inner")
	d, ok := tab.Find("x")
	assert.True(t, ok)
	assert.Equal(t, "inner", d)
	tab.Close()
	d, ok = tab.Find("x")
	assert.True(t, ok)
	assert.Equal(t, "outer", d)
}

func TestFindDupOnlyInnermost(t *testing.T) {
	tab := symtab.New("mod")
	tab.Add("x", "outer")
	tab.Open()
	_, ok := tab.FindDup("x")
	assert.False(t, ok)
	tab.Add("x", "inner")
	_, ok = tab.FindDup("x")
	assert.True(t, ok)
}

func TestForeignTypeNamespaceIsSeparate(t *testing.T) {
	tab := symtab.New("mod")
	tab.AddForeignType("FILE", "opaque")
	_, ok := tab.Find("FILE")
	assert.False(t, ok)
	d, ok := tab.FindForeignType("FILE")
	assert.True(t, ok)
	assert.Equal(t, "opaque", d)
}

func TestCloseTopLevelPanics(t *testing.T) {
	tab := symtab.New("mod")
	assert.Panics(t, func() { tab.Close() })
}
