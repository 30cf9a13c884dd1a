package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationOrder(t *testing.T) {
	var c Conversation

	c.Append(RoleUser, "first")
	c.Append(RoleAssistant, "second")
	c.Append(RoleUser, "third")

	got := c.History()
	require.Len(t, got, 3)
	assert.Equal(t, Turn{Role: RoleUser, Content: "first"}, got[0])
	assert.Equal(t, Turn{Role: RoleAssistant, Content: "second"}, got[1])
	assert.Equal(t, Turn{Role: RoleUser, Content: "third"}, got[2])
}

func TestConversationHistoryIsCopy(t *testing.T) {
	var c Conversation
	c.Append(RoleUser, "hello")

	got := c.History()
	got[0].Content = "mutated"

	assert.Equal(t, "hello", c.History()[0].Content)
}

func TestConversationReset(t *testing.T) {
	var c Conversation
	c.Append(RoleUser, "hello")
	c.Reset()

	assert.Empty(t, c.History())
}

func TestConversationConcurrentAppend(t *testing.T) {
	var c Conversation
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Append(RoleUser, fmt.Sprintf("turn %d", n))
		}(i)
	}
	wg.Wait()

	assert.Len(t, c.History(), 50)
}
