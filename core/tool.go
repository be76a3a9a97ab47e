package core

// ToolDescriptor describes one callable capability exposed by a plugin.
//
// The Description text doubles as the identity key in procedural memory:
// it is the text that gets embedded, and two tools with identical
// descriptions are indistinguishable to the embedding index. Descriptors
// are owned by the plugin registry; consumers only ever see snapshots.
type ToolDescriptor struct {
	// Name is the tool's callable name (e.g. "get_current_time").
	Name string `json:"name"`

	// Description tells the language model when to pick this tool.
	// Must be stable across reloads of the same plugin version.
	Description string `json:"description"`

	// Docstring carries the full usage documentation for the tool.
	Docstring string `json:"docstring"`

	// InputSchema is the JSON Schema for the tool's arguments.
	InputSchema map[string]interface{} `json:"input_schema,omitempty"`
}
