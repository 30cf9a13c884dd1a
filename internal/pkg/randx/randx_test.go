package randx

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenPrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(SessionToken(), "tok-"))
	assert.True(t, strings.HasPrefix(DemoToken(), "demo-"))
	assert.NotEqual(t, SessionToken(), SessionToken())
}

func TestIDSourceSequence(t *testing.T) {
	s := NewIDSource(1000)

	assert.Equal(t, int64(1000), s.Next())
	assert.Equal(t, int64(1001), s.Next())
	assert.Equal(t, int64(1002), s.Next())
}

func TestIDSourceConcurrent(t *testing.T) {
	s := NewIDSource(1)

	var mu sync.Mutex
	seen := map[int64]bool{}
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.Next()
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 100, "ids never collide under concurrency")
}
