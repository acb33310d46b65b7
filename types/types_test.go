package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"titan/types"
)

func TestEqualScalars(t *testing.T) {
	assert.True(t, types.Equal(types.Integer{}, types.Integer{}))
	assert.False(t, types.Equal(types.Integer{}, types.Float{}))
}

func TestEqualNominalByFQTN(t *testing.T) {
	a := types.Nominal{FQTN: "mod.Point"}
	b := &types.Record{FQTN: "mod.Point", Fields: []types.Field{{Name: "x", Type: types.Integer{}}}}
	assert.True(t, types.Equal(a, b))

	c := &types.Record{FQTN: "other.Point"}
	assert.False(t, types.Equal(a, c))
}

func TestRegistryResolvesSameRecord(t *testing.T) {
	reg := types.NewRegistry()
	fqtn := types.FQTN("mod", "Point")
	assert.False(t, reg.Has(fqtn))
	rec := &types.Record{FQTN: fqtn, Fields: []types.Field{{Name: "x", Type: types.Integer{}}}}
	reg.Define(fqtn, rec)
	assert.Same(t, rec, reg.Lookup(fqtn))
}

func TestArrayEquality(t *testing.T) {
	a := &types.Array{Elem: types.Integer{}}
	b := &types.Array{Elem: types.Integer{}}
	assert.True(t, types.Equal(a, b))
	c := &types.Array{Elem: types.Float{}}
	assert.False(t, types.Equal(a, c))
}
