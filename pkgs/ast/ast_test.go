package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lyth-lang/lyth/pkgs/diag"
)

func TestNumAndNameLeaves(t *testing.T) {
	n := NewNum(7, diag.Origin{})
	assert.Equal(t, "Num(7)", n.String())

	name := NewName("x", diag.Origin{})
	assert.Equal(t, "Name(x)", name.String())
}

func TestBinaryNodeString(t *testing.T) {
	add := New(Add, diag.Origin{}, NewNum(1, diag.Origin{}), NewNum(2, diag.Origin{}))
	assert.Equal(t, "Add(Num(1), Num(2))", add.String())
}

func TestLeftRightRequireExactlyTwoChildren(t *testing.T) {
	add := New(Add, diag.Origin{}, NewNum(1, diag.Origin{}), NewNum(2, diag.Origin{}))
	left, ok := add.Left()
	assert.True(t, ok)
	assert.Equal(t, "Num(1)", left.String())

	right, ok := add.Right()
	assert.True(t, ok)
	assert.Equal(t, "Num(2)", right.String())

	single := New(Doc, diag.Origin{}, NewNum(1, diag.Origin{}))
	_, ok = single.Left()
	assert.False(t, ok)
}

func TestValueRequiresExactlyOneChild(t *testing.T) {
	doc := New(Doc, diag.Origin{}, NewNum(3, diag.Origin{}))
	v, ok := doc.Value()
	assert.True(t, ok)
	assert.Equal(t, "Num(3)", v.String())

	nullary := New(Noop, diag.Origin{})
	_, ok = nullary.Value()
	assert.False(t, ok)
}

func TestChildrenArbitraryArity(t *testing.T) {
	let := New(Let, diag.Origin{}, NewNum(1, diag.Origin{}), NewNum(2, diag.Origin{}), NewNum(3, diag.Origin{}))
	assert.Len(t, let.Children(), 3)
}

func TestKindStringUnknown(t *testing.T) {
	assert.Contains(t, Kind(999).String(), "Kind(999)")
}
