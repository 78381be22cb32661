// Package symbol implements the ordered binary search tree backing the
// analyzer's scope-aware symbol table.
package symbol

// Field distinguishes a concrete value from the sentinels a symbol's
// type, mutability, address, or size field may carry before it is
// known.
type Field int

const (
	Unknown Field = iota
	Mutable
	Immutable
	None
)

func (f Field) String() string {
	switch f {
	case Mutable:
		return "mutable"
	case Immutable:
		return "immutable"
	case None:
		return "none"
	default:
		return "unknown"
	}
}

// SymbolType is the data type of a symbol: its type tag, mutability,
// and current value. TypeTag and Value are nil until assigned; a nil
// value reads the same as the sentinel Unknown.
type SymbolType struct {
	TypeTag    any
	Mutability Field
	Value      any
}

// TraversalMode selects the order in which Traverse visits a node's
// subtree relative to the node itself.
type TraversalMode int

const (
	PreOrder TraversalMode = iota
	InOrder
	PostOrder
)

// Name is a node in an ordered binary search tree keyed by (name,
// scope): all keys in Left compare strictly less, all keys in Right
// strictly greater, ordered lexicographically on name then scope.
type Name struct {
	name  string
	scope string

	Type    SymbolType
	Address any
	Size    any

	Left  *Name
	Right *Name
}

// New creates a detached symbol node. Use Registry.Root to create one
// registered as a tree root.
func New(name, scope string, t SymbolType) *Name {
	return &Name{name: name, scope: scope, Type: t}
}

// Name returns the symbol's identifier.
func (n *Name) Name() string { return n.name }

// Scope returns the symbol's owning scope.
func (n *Name) Scope() string { return n.scope }

func less(a, b *Name) bool {
	if a.name == b.name {
		return a.scope < b.scope
	}
	return a.name < b.name
}

func equal(a, b *Name) bool {
	return a.name == b.name && a.scope == b.scope
}

// Insert adds other to n's subtree. Inserting a key already present is
// a no-op: the tree's existing node for that key is left untouched.
func (n *Name) Insert(other *Name) {
	if equal(n, other) {
		return
	}
	if less(n, other) {
		if n.Right != nil {
			n.Right.Insert(other)
		} else {
			n.Right = other
		}
		return
	}
	if n.Left != nil {
		n.Left.Insert(other)
	} else {
		n.Left = other
	}
}

// Find looks up (name, scope) in n's subtree.
func (n *Name) Find(name, scope string) (*Name, bool) {
	if n == nil {
		return nil, false
	}
	target := &Name{name: name, scope: scope}
	if equal(n, target) {
		return n, true
	}
	if less(n, target) {
		return n.Right.Find(name, scope)
	}
	return n.Left.Find(name, scope)
}

// Traverse walks n's subtree in the given order, calling visit once
// per node.
func (n *Name) Traverse(mode TraversalMode, visit func(*Name)) {
	if n == nil {
		return
	}
	if mode == PreOrder {
		visit(n)
	}
	n.Left.Traverse(mode, visit)
	if mode == InOrder {
		visit(n)
	}
	n.Right.Traverse(mode, visit)
	if mode == PostOrder {
		visit(n)
	}
}

// deleteChild removes the node keyed (name, scope) from the subtree
// reachable through slot, detaching its entire subtree in place;
// children are not re-inserted.
func deleteChild(slot **Name, name, scope string) bool {
	node := *slot
	if node == nil {
		return false
	}
	target := &Name{name: name, scope: scope}
	if equal(node, target) {
		*slot = nil
		return true
	}
	if less(node, target) {
		return deleteChild(&node.Right, name, scope)
	}
	return deleteChild(&node.Left, name, scope)
}

type rootKey struct {
	name  string
	scope string
}

// Registry is the set of top-level symbol trees, realized as an
// explicit, constructible value rather than a package-level singleton.
// A driver running multiple independent pipelines owns one Registry
// per pipeline instance.
type Registry struct {
	roots map[rootKey]*Name
}

// NewRegistry creates an empty roots registry.
func NewRegistry() *Registry {
	return &Registry{roots: make(map[rootKey]*Name)}
}

// Root returns the existing root for (name, scope), creating and
// registering one if it does not already exist.
func (r *Registry) Root(name, scope string, t SymbolType) *Name {
	key := rootKey{name, scope}
	if existing, ok := r.roots[key]; ok {
		return existing
	}
	n := New(name, scope, t)
	r.roots[key] = n
	return n
}

// Roots returns every registered root, in no particular order.
func (r *Registry) Roots() []*Name {
	out := make([]*Name, 0, len(r.roots))
	for _, n := range r.roots {
		out = append(out, n)
	}
	return out
}

// Delete removes the symbol (name, scope) from whichever root tree
// contains it, detaching its entire subtree. It returns false if no
// root tree contains the key.
func (r *Registry) Delete(name, scope string) bool {
	key := rootKey{name, scope}
	if _, ok := r.roots[key]; ok {
		delete(r.roots, key)
		return true
	}
	for _, root := range r.roots {
		if deleteChild(&root.Left, name, scope) || deleteChild(&root.Right, name, scope) {
			return true
		}
	}
	return false
}
