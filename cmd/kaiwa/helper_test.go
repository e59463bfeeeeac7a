package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kaiwahq/kaiwa/internal/conversation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConversationJSON(t *testing.T) {
	path := writeFixture(t, "conv.json", `[
		{"role":"user","parts":[{"type":"text","text":"hi"}]},
		{"role":"assistant","parts":[{"type":"tool_call","id":"t1","name":"search"}]},
		{"role":"tool","parts":[{"type":"tool_result","tool_call_id":"t1","output":"ok"}]}
	]`)

	conv, err := loadConversation(path)
	require.NoError(t, err)
	require.Len(t, conv, 3)
	assert.Empty(t, conversation.Validate(conv))
}

func TestLoadConversationYAML(t *testing.T) {
	path := writeFixture(t, "conv.yaml", `
- role: user
  parts:
    - type: text
      text: generate 10 items
- role: assistant
  parts:
    - type: tool_call
      id: t1
      name: generate_items
- role: user
  parts:
    - type: tool_result
      tool_call_id: t1
      output: ok
    - type: text
      text: generate 100 items
`)

	conv, err := loadConversation(path)
	require.NoError(t, err)
	require.Len(t, conv, 3)

	// The YAML fixture reproduces the folded-result defect; the loader must
	// preserve it so check/fix can see it.
	issues := conversation.Validate(conv)
	require.NotEmpty(t, issues)
}

func TestLoadConversationMissingFile(t *testing.T) {
	_, err := loadConversation(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestWriteConversationRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	conv := conversation.Conversation{
		conversation.Text(conversation.RoleUser, "hello"),
	}

	require.NoError(t, writeConversation(path, conv))

	loaded, err := loadConversation(path)
	require.NoError(t, err)
	assert.Equal(t, conv, loaded)
}
