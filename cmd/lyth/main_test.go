package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCycleSpec(t *testing.T) {
	n, bounded, err := parseCycleSpec("")
	require.NoError(t, err)
	assert.False(t, bounded)
	assert.Equal(t, 0, n)

	n, bounded, err = parseCycleSpec("cycle=0")
	require.NoError(t, err)
	assert.True(t, bounded)
	assert.Equal(t, 0, n)

	n, bounded, err = parseCycleSpec("cycle=5")
	require.NoError(t, err)
	assert.True(t, bounded)
	assert.Equal(t, 5, n)
}

func TestParseCycleSpecRejectsMalformed(t *testing.T) {
	_, _, err := parseCycleSpec("bogus")
	assert.Error(t, err)

	_, _, err = parseCycleSpec("cycle=notanumber")
	assert.Error(t, err)
}

func newLineReader(text string) *lineReader {
	return &lineReader{br: bufio.NewReader(strings.NewReader(text))}
}

func TestReadStatementPlainLine(t *testing.T) {
	lr := newLineReader("1 + 2\n")
	text, err := readStatement(lr)
	require.NoError(t, err)
	assert.Equal(t, "1 + 2\n", text)
}

func TestReadStatementBlockGathersContinuationUntilBlank(t *testing.T) {
	lr := newLineReader("let:\n  a <- 1\n  b <- 2\n\n")
	text, err := readStatement(lr)
	require.NoError(t, err)
	assert.Equal(t, "let:\n  a <- 1\n  b <- 2\n\n", text)
}

func TestReadStatementBlockEndsOnDedentAndPushesBack(t *testing.T) {
	lr := newLineReader("point:\n  x <- 1\ny <- 2\n")
	text, err := readStatement(lr)
	require.NoError(t, err)
	assert.Equal(t, "point:\n  x <- 1\n", text)

	next, err := readStatement(lr)
	require.NoError(t, err)
	assert.Equal(t, "y <- 2\n", next)
}

func TestLineReaderPushBack(t *testing.T) {
	lr := newLineReader("a\nb\n")
	first, err := lr.next()
	require.NoError(t, err)
	assert.Equal(t, "a\n", first)

	lr.pushBack(first)
	replayed, err := lr.next()
	require.NoError(t, err)
	assert.Equal(t, "a\n", replayed)

	second, err := lr.next()
	require.NoError(t, err)
	assert.Equal(t, "b\n", second)
}
