package docmodel

import (
	"strings"

	"Backend-Rhea/src/models"
)

// TextContent flattens a block subtree into plain text. The block's own text
// is emitted once, prefixed by prefix; child blocks are flattened recursively
// and joined by newline. Bullet-list children get a "* " prefix ("  "+prefix
// when the list is itself nested inside another list); ordered-list children
// get "#. " analogously.
//
// The function is pure: it reads nothing outside the subtree and is safe to
// call repeatedly on the same input. Both the save-diffing path and the
// rule-oracle prompt builder rely on that.
func TextContent(b *models.Block, prefix string) string {
	if b == nil {
		return ""
	}

	var lines []string
	childPrefix := prefix // textless wrappers pass the prefix through
	if b.Text != "" {
		lines = append(lines, prefix+b.Text)
		childPrefix = ""
	}

	switch b.Type {
	case models.BlockBulletList:
		childPrefix = "* "
		if prefix != "" {
			childPrefix = "  " + prefix
		}
	case models.BlockOrderedList:
		childPrefix = "#. "
		if prefix != "" {
			childPrefix = "  " + prefix
		}
	}

	for i := range b.Content {
		if s := TextContent(&b.Content[i], childPrefix); s != "" {
			lines = append(lines, s)
		}
	}

	return strings.Join(lines, "\n")
}

// Text is TextContent without an outer prefix, trimmed.
func Text(b *models.Block) string {
	return strings.TrimSpace(TextContent(b, ""))
}
