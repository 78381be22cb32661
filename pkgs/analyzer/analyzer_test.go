package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyth-lang/lyth/pkgs/diag"
	"github.com/lyth-lang/lyth/pkgs/lexer"
	"github.com/lyth-lang/lyth/pkgs/parser"
	"github.com/lyth-lang/lyth/pkgs/scanner"
	"github.com/lyth-lang/lyth/pkgs/symbol"
)

func evalAll(t *testing.T, az *Analyzer, source string) ([]any, error) {
	t.Helper()
	p := parser.New(lexer.New(scanner.New(source, "t.ly")))
	var results []any
	for {
		node, err := p.NextStatement()
		if err != nil {
			if errors.Is(err, parser.ErrEndOfProgram) {
				return results, nil
			}
			return results, err
		}
		v, err := az.Visit(node, Load)
		if err != nil {
			return results, err
		}
		results = append(results, v)
	}
}

func newAnalyzer() *Analyzer {
	return New(symbol.NewRegistry(), "t.ly")
}

func TestAnalyzerIntegerArithmeticStaysInteger(t *testing.T) {
	az := newAnalyzer()
	results, err := evalAll(t, az, "1 + 2 * 3\n\n")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0])
}

func TestAnalyzerDivisionIsAlwaysFloat(t *testing.T) {
	az := newAnalyzer()
	results, err := evalAll(t, az, "4 / 2\n\n")
	require.NoError(t, err)
	assert.Equal(t, 2.0, results[0])
}

func TestAnalyzerFloorDivision(t *testing.T) {
	az := newAnalyzer()
	results, err := evalAll(t, az, "7 // 2\n\n")
	require.NoError(t, err)
	assert.Equal(t, 3, results[0])
}

func TestAnalyzerMutableAndImmutableAssign(t *testing.T) {
	az := newAnalyzer()
	_, err := evalAll(t, az, "a <- 1 + 2\na * 5 -> b\n\n")
	require.NoError(t, err)

	a, ok := az.Root().Find("a", "t.ly")
	require.True(t, ok)
	assert.Equal(t, 3, a.Type.Value)
	assert.Equal(t, symbol.Mutable, a.Type.Mutability)

	b, ok := az.Root().Find("b", "t.ly")
	require.True(t, ok)
	assert.Equal(t, 15, b.Type.Value)
	assert.Equal(t, symbol.Immutable, b.Type.Mutability)
}

func TestAnalyzerMutableReassignOverwrites(t *testing.T) {
	az := newAnalyzer()
	_, err := evalAll(t, az, "a <- 1\na <- 2\n\n")
	require.NoError(t, err)

	a, ok := az.Root().Find("a", "t.ly")
	require.True(t, ok)
	assert.Equal(t, 2, a.Type.Value)
}

func TestAnalyzerImmutableReassignFails(t *testing.T) {
	az := newAnalyzer()
	_, err := evalAll(t, az, "1 -> a\n2 -> a\n\n")
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, diag.ReassignImmutable, de.Kind)
}

func TestAnalyzerImmutableReassignDoesNotEvaluateRHS(t *testing.T) {
	az := newAnalyzer()
	// The second assignment's RHS references an undefined name; since
	// the existence check runs before RHS evaluation, the failure must
	// be ReassignImmutable, not VariableReferencedBeforeAssignment.
	_, err := evalAll(t, az, "1 -> a\nundefined -> a\n\n")
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, diag.ReassignImmutable, de.Kind)
}

func TestAnalyzerParenthesizedExpressionWithName(t *testing.T) {
	az := newAnalyzer()
	results, err := evalAll(t, az, "a <- 10\n1 + (a - 3) * 5\n\n")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 36, results[1])
}

func TestAnalyzerImmutableReassignReportsOperatorColumn(t *testing.T) {
	az := newAnalyzer()
	_, err := evalAll(t, az, "7 + 4 -> b\n12 -> b\n\n")
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, diag.ReassignImmutable, de.Kind)
	assert.Equal(t, 1, de.Origin.Line)
	assert.Equal(t, 3, de.Origin.Column)

	b, ok := az.Root().Find("b", "t.ly")
	require.True(t, ok)
	assert.Equal(t, 11, b.Type.Value)
	assert.Equal(t, symbol.Immutable, b.Type.Mutability)
}

func TestAnalyzerUndefinedNameSuggestsNearest(t *testing.T) {
	az := newAnalyzer()
	_, err := evalAll(t, az, "count <- 1\ncnt\n\n")
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, diag.VariableReferencedBeforeAssignment, de.Kind)
	assert.Equal(t, "did you mean 'count'?", de.Hint)
}

func TestAnalyzerLetReturnsLastValue(t *testing.T) {
	az := newAnalyzer()
	results, err := evalAll(t, az, "let:\n  a <- 1\n  a + 1\n\n")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0])
}

func TestAnalyzerDocInternsBodyAndEvaluatesLiteral(t *testing.T) {
	az := newAnalyzer()
	results, err := evalAll(t, az, `"""hello""" 5`+"\n\n")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0])
	assert.Equal(t, 1, az.Docs().Len())
}
