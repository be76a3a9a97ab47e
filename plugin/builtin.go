package plugin

import "github.com/greymalkin-ai/greymalkin/core"

// BuiltinPluginName registers the tools every runtime ships with.
const BuiltinPluginName = "core"

// BuiltinTools returns the descriptors for the always-available tools.
func BuiltinTools() []core.ToolDescriptor {
	return []core.ToolDescriptor{
		{
			Name:        "get_current_time",
			Description: "get_current_time: Useful to get the current time when asked. Input is always None.",
			Docstring:   "Replies to \"what time is it\", \"get the clock\" and similar questions.",
			InputSchema: map[string]interface{}{
				"type": "object",
			},
		},
		{
			Name:        "recall_memories",
			Description: "recall_memories(query): Useful to search the agent's long term memory. Input is the text to search for.",
			Docstring:   "Retrieves episodic and declarative memories relevant to a query.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Text to search memories for.",
					},
				},
				"required": []interface{}{"query"},
			},
		},
	}
}
