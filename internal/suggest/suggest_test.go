package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNearestFindsClosest(t *testing.T) {
	near, ok := Nearest("cnt", []string{"count", "color", "total"})
	assert.True(t, ok)
	assert.Equal(t, "count", near)
}

func TestNearestPicksUniqueSubsequenceMatch(t *testing.T) {
	near, ok := Nearest("clr", []string{"count", "color", "total"})
	assert.True(t, ok)
	assert.Equal(t, "color", near)
}

func TestNearestEmptyCandidates(t *testing.T) {
	_, ok := Nearest("count", nil)
	assert.False(t, ok)
}

func TestNearestNoFuzzyMatch(t *testing.T) {
	_, ok := Nearest("zzz", []string{"abc"})
	assert.False(t, ok)
}
