package lexical

// Root is the top-level structure of a Lexical editor state export.
type Root struct {
	Root Node `json:"root"`
}

// Node is any node in the Lexical tree. Only the fields needed for text
// extraction are mapped; styling and formatting metadata is ignored.
type Node struct {
	Type     string `json:"type"`
	Children []Node `json:"children,omitempty"`

	// Text specific
	Text string `json:"text,omitempty"`

	// Heading specific
	Tag string `json:"tag,omitempty"`

	// List specific
	ListType string `json:"listType,omitempty"` // check, bullet, number
	Start    int    `json:"start,omitempty"`

	// ListItem specific
	Checked bool `json:"checked,omitempty"`

	// Link specific
	URL string `json:"url,omitempty"`
}
