package docstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIsIdempotent(t *testing.T) {
	s := New()
	id1 := s.Intern("hello world")
	id2 := s.Intern("hello world")

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, s.Len())
}

func TestInternDistinctBodies(t *testing.T) {
	s := New()
	s.Intern("a")
	s.Intern("b")

	assert.Equal(t, 2, s.Len())
}

func TestTextRoundTrips(t *testing.T) {
	s := New()
	id := s.Intern("some docstring body")

	text, ok := s.Text(id)
	require.True(t, ok)
	assert.Equal(t, "some docstring body", text)

	_, ok = s.Text(Hash{})
	assert.False(t, ok)
}

func TestInternConcurrentSafe(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Intern("same body")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
