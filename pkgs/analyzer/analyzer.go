// Package analyzer implements the tree-walking evaluator that visits
// AST roots produced by the parser, evaluating arithmetic and
// maintaining the scope-aware symbol table.
package analyzer

import (
	"fmt"
	"math"

	"github.com/lyth-lang/lyth/internal/suggest"
	"github.com/lyth-lang/lyth/pkgs/ast"
	"github.com/lyth-lang/lyth/pkgs/diag"
	"github.com/lyth-lang/lyth/pkgs/docstore"
	"github.com/lyth-lang/lyth/pkgs/symbol"
)

// Context selects how a visit resolves a Name node: Load returns the
// value bound to it, Store returns its identifier for the caller to
// bind.
type Context int

const (
	Load Context = iota
	Store
)

// Analyzer walks AST roots against a single symbol table rooted at
// (scope, "root").
type Analyzer struct {
	registry *symbol.Registry
	scope    string
	root     *symbol.Name
	docs     *docstore.Store
}

// New creates an analyzer bootstrapping its symbol table's root node
// in registry, under the given scope (conventionally the source
// filename).
func New(registry *symbol.Registry, scope string) *Analyzer {
	root := registry.Root(scope, "root", symbol.SymbolType{})
	return &Analyzer{registry: registry, scope: scope, root: root, docs: docstore.New()}
}

// Root exposes the root symbol node for external inspection (snapshot
// serialization, REPL introspection).
func (a *Analyzer) Root() *symbol.Name { return a.root }

// Docs exposes the docstring content-address store.
func (a *Analyzer) Docs() *docstore.Store { return a.docs }

// Visit dispatches on node.Kind, evaluating it under ctx. Dispatching
// on an unrecognized kind is a programming error, not a diagnosable
// one: every Kind the parser can produce is handled below.
func (a *Analyzer) Visit(node *ast.Node, ctx Context) (any, error) {
	switch node.Kind {
	case ast.Num:
		return node.Int, nil
	case ast.Name:
		return a.visitName(node, ctx)
	case ast.Add:
		return a.visitBinary(node, func(l, r int) int { return l + r }, func(l, r float64) float64 { return l + r })
	case ast.Sub:
		return a.visitBinary(node, func(l, r int) int { return l - r }, func(l, r float64) float64 { return l - r })
	case ast.Mul:
		return a.visitBinary(node, func(l, r int) int { return l * r }, func(l, r float64) float64 { return l * r })
	case ast.Floor:
		return a.visitBinary(node, func(l, r int) int {
			q := l / r
			if l%r != 0 && (l < 0) != (r < 0) {
				q--
			}
			return q
		}, func(l, r float64) float64 { return math.Floor(l / r) })
	case ast.Div:
		return a.visitDiv(node)
	case ast.MutableAssign:
		return nil, a.visitAssign(node, symbol.Mutable)
	case ast.ImmutableAssign:
		return nil, a.visitAssign(node, symbol.Immutable)
	case ast.Let:
		return a.visitLet(node)
	case ast.Doc:
		return a.visitDoc(node)
	case ast.Class, ast.Type:
		// Captured in the model; no evaluation semantics defined yet.
		return nil, nil
	case ast.Noop:
		return nil, nil
	default:
		return nil, fmt.Errorf("analyzer: unsupported AST node kind %s", node.Kind)
	}
}

func (a *Analyzer) visitName(node *ast.Node, ctx Context) (any, error) {
	if ctx == Store {
		return node.Text, nil
	}
	sym, ok := a.root.Find(node.Text, a.scope)
	if !ok {
		err := diag.New(diag.VariableReferencedBeforeAssignment, node.Origin)
		if near, found := suggest.Nearest(node.Text, a.declaredNames()); found {
			err = err.WithHint(fmt.Sprintf("did you mean '%s'?", near))
		}
		return nil, err
	}
	return sym.Type.Value, nil
}

func (a *Analyzer) declaredNames() []string {
	var names []string
	a.root.Traverse(symbol.InOrder, func(n *symbol.Name) {
		if n.Name() != a.scope {
			names = append(names, n.Name())
		}
	})
	return names
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func (a *Analyzer) visitBinary(node *ast.Node, intOp func(int, int) int, floatOp func(float64, float64) float64) (any, error) {
	left, right, err := a.evalOperands(node)
	if err != nil {
		return nil, err
	}
	li, lok := left.(int)
	ri, rok := right.(int)
	if lok && rok {
		return intOp(li, ri), nil
	}
	return floatOp(toFloat(left), toFloat(right)), nil
}

// visitDiv always yields a real-valued result, per the original's true
// division for '/' (the integer variant is Floor, from '//').
func (a *Analyzer) visitDiv(node *ast.Node) (any, error) {
	left, right, err := a.evalOperands(node)
	if err != nil {
		return nil, err
	}
	return toFloat(left) / toFloat(right), nil
}

func (a *Analyzer) evalOperands(node *ast.Node) (any, any, error) {
	leftNode, ok := node.Left()
	rightNode, _ := node.Right()
	if !ok {
		return nil, nil, fmt.Errorf("analyzer: malformed %s node", node.Kind)
	}
	left, err := a.Visit(leftNode, Load)
	if err != nil {
		return nil, nil, err
	}
	right, err := a.Visit(rightNode, Load)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (a *Analyzer) visitAssign(node *ast.Node, mutability symbol.Field) error {
	targetNode, ok := node.Left()
	rhsNode, _ := node.Right()
	if !ok {
		return fmt.Errorf("analyzer: malformed assignment node")
	}

	nameVal, err := a.Visit(targetNode, Store)
	if err != nil {
		return err
	}
	name := nameVal.(string)

	existing, found := a.root.Find(name, a.scope)

	if mutability == symbol.Immutable {
		if found {
			return diag.New(diag.ReassignImmutable, node.Origin)
		}
		value, err := a.Visit(rhsNode, Load)
		if err != nil {
			return err
		}
		a.root.Insert(symbol.New(name, a.scope, symbol.SymbolType{Mutability: symbol.Immutable, Value: value}))
		return nil
	}

	if found {
		value, err := a.Visit(rhsNode, Load)
		if err != nil {
			return err
		}
		existing.Type.Value = value
		return nil
	}
	value, err := a.Visit(rhsNode, Load)
	if err != nil {
		return err
	}
	a.root.Insert(symbol.New(name, a.scope, symbol.SymbolType{Mutability: symbol.Mutable, Value: value}))
	return nil
}

// visitLet visits each child in turn, returning the last child's
// value — the declaration marker itself has no value of its own.
func (a *Analyzer) visitLet(node *ast.Node) (any, error) {
	var last any
	for _, child := range node.Children() {
		v, err := a.Visit(child, Load)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// visitDoc interns the docstring body for deduplication, then
// evaluates whatever literal follows it.
func (a *Analyzer) visitDoc(node *ast.Node) (any, error) {
	if node.Text != "" {
		a.docs.Intern(node.Text)
	}
	next, ok := node.Value()
	if !ok {
		return nil, nil
	}
	return a.Visit(next, Load)
}
