package conversation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTranscriptFixture(t *testing.T) {
	fixture := `[
		{"role":"user","parts":[{"type":"text","text":"generate 10 items"}]},
		{"role":"assistant","parts":[
			{"type":"tool_call","id":"t1","name":"generate_items","input":"{\"count\":10}"},
			{"type":"text","text":"Generated code."}
		]},
		{"role":"tool","parts":[{"type":"tool_result","tool_call_id":"t1","output":"ok"}]},
		{"role":"user","parts":[{"type":"text","text":"generate 100 items"}]}
	]`

	var conv Conversation
	require.NoError(t, json.Unmarshal([]byte(fixture), &conv))
	require.Len(t, conv, 4)

	calls := conv[1].ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "t1", calls[0].ID)
	assert.Equal(t, "generate_items", calls[0].Name)

	assert.Empty(t, Validate(conv))

	// Round trip preserves the structure.
	data, err := json.Marshal(conv)
	require.NoError(t, err)

	var again Conversation
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, conv, again)
}

func TestDecodeRejectsUnknownPartType(t *testing.T) {
	fixture := `[{"role":"user","parts":[{"type":"image","text":"x"}]}]`

	var conv Conversation
	err := json.Unmarshal([]byte(fixture), &conv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown part type")
}
