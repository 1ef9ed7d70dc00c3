package store

import "github.com/inamate/whiteboard/internal/document"

// Tool is the active toolbar tool. Select and hand are modes; the text,
// image and shape tools only trigger an add and are never left active by
// the toolbar, but they are valid values so a presentation layer can
// highlight them.
type Tool string

const (
	ToolSelect Tool = "select"
	ToolHand   Tool = "hand"
	ToolText   Tool = "text"
	ToolImage  Tool = "image"
)

// ShapeTool returns the tool that adds shapes of kind k.
func ShapeTool(k document.ShapeKind) Tool {
	return Tool(k)
}

// ParseTool reports whether s names a tool.
func ParseTool(s string) (Tool, bool) {
	switch t := Tool(s); t {
	case ToolSelect, ToolHand, ToolText, ToolImage:
		return t, true
	}
	if k, ok := document.ParseShapeKind(s); ok {
		return ShapeTool(k), true
	}
	return "", false
}
