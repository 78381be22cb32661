// Package session serializes a symbol table to and from CBOR, for the
// CLI's --snapshot flag: a way to inspect declared names and values
// between driver invocations without re-running the pipeline.
package session

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/lyth-lang/lyth/pkgs/symbol"
)

// Snapshot is the canonical, serializable form of one symbol-tree
// node: symbol.Name's key, mutability, value and children. The type
// tag, address and size are not recorded.
type Snapshot struct {
	Name       string    `cbor:"name"`
	Scope      string    `cbor:"scope"`
	Mutability string    `cbor:"mutability"`
	Value      any       `cbor:"value,omitempty"`
	Left       *Snapshot `cbor:"left,omitempty"`
	Right      *Snapshot `cbor:"right,omitempty"`
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}

func snapshotOf(n *symbol.Name) *Snapshot {
	if n == nil {
		return nil
	}
	return &Snapshot{
		Name:       n.Name(),
		Scope:      n.Scope(),
		Mutability: n.Type.Mutability.String(),
		Value:      n.Type.Value,
		Left:       snapshotOf(n.Left),
		Right:      snapshotOf(n.Right),
	}
}

// Encode canonically CBOR-encodes the symbol tree rooted at root.
func Encode(root *symbol.Name) ([]byte, error) {
	return encMode.Marshal(snapshotOf(root))
}

// Decode reverses Encode. The returned tree is detached: it is not
// registered with any Registry.
func Decode(data []byte) (*symbol.Name, error) {
	var snap *Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return rebuild(snap), nil
}

func rebuild(s *Snapshot) *symbol.Name {
	if s == nil {
		return nil
	}
	mutability := symbol.Unknown
	switch s.Mutability {
	case "mutable":
		mutability = symbol.Mutable
	case "immutable":
		mutability = symbol.Immutable
	case "none":
		mutability = symbol.None
	}
	n := symbol.New(s.Name, s.Scope, symbol.SymbolType{Mutability: mutability, Value: s.Value})
	n.Left = rebuild(s.Left)
	n.Right = rebuild(s.Right)
	return n
}
