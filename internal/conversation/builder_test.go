package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderProducesWellFormedHistory(t *testing.T) {
	call := Call("", "exec_command", `{"cmd":"echo hello"}`)
	require.NotEmpty(t, call.ID)

	conv := NewBuilder().
		System("You are a careful assistant.").
		User("run a command").
		Assistant(call).
		ToolResult(call.ID, "hello").
		Assistant(TextPart{Text: "done"}).
		Build()

	require.Len(t, conv, 5)
	assert.Empty(t, Validate(conv))
}

func TestBuilderSnapshotIsIndependent(t *testing.T) {
	b := NewBuilder().User("one")
	first := b.Build()

	b.User("two")
	second := b.Build()

	require.Len(t, first, 1)
	require.Len(t, second, 2)
}

func TestCallKeepsSuppliedID(t *testing.T) {
	call := Call("t1", "search", "{}")
	assert.Equal(t, "t1", call.ID)
}

func TestNewToolCallIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewToolCallID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
