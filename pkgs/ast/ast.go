// Package ast defines the abstract syntax tree produced by the parser
// and consumed by the analyzer.
package ast

import (
	"fmt"
	"strings"

	"github.com/lyth-lang/lyth/pkgs/diag"
)

// Kind identifies the category of an AST node.
type Kind int

const (
	Num Kind = iota
	Name
	Add
	Sub
	Mul
	Div
	Floor
	MutableAssign
	ImmutableAssign
	Let
	Class
	Type
	Doc
	Noop
)

var kindNames = [...]string{
	Num: "Num", Name: "Name", Add: "Add", Sub: "Sub", Mul: "Mul", Div: "Div",
	Floor: "Floor", MutableAssign: "MutableAssign", ImmutableAssign: "ImmutableAssign",
	Let: "Let", Class: "Class", Type: "Type", Doc: "Doc", Noop: "Noop",
}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a generic AST node. Most kinds are internal nodes holding
// one or two children (binary operators, assignments, Let/Doc
// wrappers); Num and Name are leaves holding a finalized scalar
// instead of children.
//
// The leaf-access contract: Value succeeds iff the node has exactly
// one child, Left/Right succeed iff it has exactly two. Num and Name
// are read through their Int/Text fields directly rather than through
// Value, since their payload is a scalar, not a node.
type Node struct {
	Kind   Kind
	Origin diag.Origin

	// Scalar payload, meaningful only when Kind is Num or Name.
	Int  int
	Text string

	children []*Node
}

// NewNum creates a Num leaf.
func NewNum(n int, origin diag.Origin) *Node {
	return &Node{Kind: Num, Origin: origin, Int: n}
}

// NewName creates a Name leaf.
func NewName(s string, origin diag.Origin) *Node {
	return &Node{Kind: Name, Origin: origin, Text: s}
}

// New creates an internal node with zero or more children.
func New(kind Kind, origin diag.Origin, children ...*Node) *Node {
	return &Node{Kind: kind, Origin: origin, children: children}
}

// Children returns every child, for kinds of arbitrary arity such as
// Let and Class.
func (n *Node) Children() []*Node {
	return n.children
}

// Value returns the sole child of a single-child node: a
// single-statement Let, or a Doc wrapping the literal that follows it.
func (n *Node) Value() (*Node, bool) {
	if len(n.children) == 1 {
		return n.children[0], true
	}
	return nil, false
}

// Left returns the left-hand child of a two-child node.
func (n *Node) Left() (*Node, bool) {
	if len(n.children) == 2 {
		return n.children[0], true
	}
	return nil, false
}

// Right returns the right-hand child of a two-child node.
func (n *Node) Right() (*Node, bool) {
	if len(n.children) == 2 {
		return n.children[1], true
	}
	return nil, false
}

// String renders the node in constructor notation, e.g.
// "Add(Num(1), Num(2))".
func (n *Node) String() string {
	switch n.Kind {
	case Num:
		return fmt.Sprintf("Num(%d)", n.Int)
	case Name:
		return fmt.Sprintf("Name(%s)", n.Text)
	default:
		parts := make([]string, len(n.children))
		for i, c := range n.children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%s(%s)", n.Kind, strings.Join(parts, ", "))
	}
}
