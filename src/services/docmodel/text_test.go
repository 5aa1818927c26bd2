package docmodel

import (
	"testing"

	"Backend-Rhea/src/models"

	"github.com/stretchr/testify/assert"
)

func textBlock(s string) models.Block {
	return models.Block{Type: models.BlockText, Text: s}
}

func TestTextContent(t *testing.T) {
	t.Run("NilBlock", func(t *testing.T) {
		assert.Equal(t, "", TextContent(nil, ""))
	})

	t.Run("PlainParagraphs", func(t *testing.T) {
		doc := models.NewDoc(
			models.Block{Type: models.BlockParagraph, Content: []models.Block{textBlock("first")}},
			models.Block{Type: models.BlockParagraph, Content: []models.Block{textBlock("second")}},
		)
		assert.Equal(t, "first\nsecond", TextContent(doc, ""))
	})

	t.Run("BulletList", func(t *testing.T) {
		doc := models.NewDoc(
			models.Block{Type: models.BlockBulletList, Content: []models.Block{
				{Type: models.BlockListItem, Content: []models.Block{textBlock("apples")}},
				{Type: models.BlockListItem, Content: []models.Block{textBlock("pears")}},
			}},
		)
		assert.Equal(t, "* apples\n* pears", TextContent(doc, ""))
	})

	t.Run("OrderedList", func(t *testing.T) {
		doc := models.NewDoc(
			models.Block{Type: models.BlockOrderedList, Content: []models.Block{
				{Type: models.BlockListItem, Content: []models.Block{textBlock("wash")}},
				{Type: models.BlockListItem, Content: []models.Block{textBlock("rinse")}},
			}},
		)
		assert.Equal(t, "#. wash\n#. rinse", TextContent(doc, ""))
	})

	t.Run("NestedListIndents", func(t *testing.T) {
		doc := models.NewDoc(
			models.Block{Type: models.BlockBulletList, Content: []models.Block{
				{Type: models.BlockListItem, Content: []models.Block{
					textBlock("outer"),
					{Type: models.BlockBulletList, Content: []models.Block{
						{Type: models.BlockListItem, Content: []models.Block{textBlock("inner")}},
					}},
				}},
			}},
		)
		assert.Equal(t, "* outer\n  * inner", TextContent(doc, ""))
	})

	t.Run("EmptyBlocksSkipped", func(t *testing.T) {
		doc := models.NewDoc(
			models.Block{Type: models.BlockParagraph},
			models.Block{Type: models.BlockParagraph, Content: []models.Block{textBlock("only")}},
			models.Block{Type: models.BlockParagraph, Content: []models.Block{textBlock("")}},
		)
		assert.Equal(t, "only", TextContent(doc, ""))
	})

	t.Run("PureFunction", func(t *testing.T) {
		doc := models.NewDoc(
			models.Block{Type: models.BlockParagraph, Content: []models.Block{textBlock("stable")}},
		)
		first := TextContent(doc, "")
		second := TextContent(doc, "")
		assert.Equal(t, first, second)
	})
}

func TestText(t *testing.T) {
	b := models.Block{Type: models.BlockTextQuestion, Content: []models.Block{
		textBlock("  What is your name?  "),
	}}
	assert.Equal(t, "What is your name?", Text(&b))
}
