package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyth-lang/lyth/pkgs/symbol"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	root := symbol.New("scope", "root", symbol.SymbolType{Mutability: symbol.None})
	root.Insert(symbol.New("a", "scope", symbol.SymbolType{Mutability: symbol.Mutable, Value: int64(5)}))
	root.Insert(symbol.New("b", "scope", symbol.SymbolType{Mutability: symbol.Immutable, Value: "hi"}))

	data, err := Encode(root)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.NotNil(t, decoded)

	assert.Equal(t, "scope", decoded.Name())
	assert.Equal(t, "root", decoded.Scope())

	a, ok := decoded.Find("a", "scope")
	require.True(t, ok)
	assert.Equal(t, symbol.Mutable, a.Type.Mutability)
	assert.EqualValues(t, 5, a.Type.Value)

	b, ok := decoded.Find("b", "scope")
	require.True(t, ok)
	assert.Equal(t, symbol.Immutable, b.Type.Mutability)
	assert.Equal(t, "hi", b.Type.Value)
}

func TestEncodeIsCanonicalAndDeterministic(t *testing.T) {
	root := symbol.New("scope", "root", symbol.SymbolType{})
	root.Insert(symbol.New("a", "scope", symbol.SymbolType{Value: 1}))

	first, err := Encode(root)
	require.NoError(t, err)
	second, err := Encode(root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeNilRoot(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}
