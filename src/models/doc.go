package models

// BlockType tags one node in a form document tree.
type BlockType string

const (
	BlockDoc          BlockType = "doc"
	BlockSection      BlockType = "section"
	BlockCallout      BlockType = "callout"
	BlockParagraph    BlockType = "paragraph"
	BlockText         BlockType = "text"
	BlockBulletList   BlockType = "bulletList"
	BlockOrderedList  BlockType = "orderedList"
	BlockListItem     BlockType = "listItem"
	BlockChoiceList   BlockType = "choiceList"
	BlockChoiceOption BlockType = "choiceOption"
	BlockTextQuestion BlockType = "textQuestion"
	BlockSignature    BlockType = "signature"
	BlockUpload       BlockType = "upload"
)

// BlockAttrs carries the per-type attributes a block may legally hold.
// Only question-bearing blocks use ID; only choice options use Index.
type BlockAttrs struct {
	ID       string `bson:"id,omitempty" json:"id,omitempty"`
	Index    int    `bson:"index,omitempty" json:"index,omitempty"`
	Level    int    `bson:"level,omitempty" json:"level,omitempty"`
	Multiple bool   `bson:"multiple,omitempty" json:"multiple,omitempty"`
	FreeText string `bson:"freeText,omitempty" json:"freeText,omitempty"`
}

// Block is one node in a form document tree. The root block has type "doc".
type Block struct {
	Type    BlockType   `bson:"type" json:"type"`
	Attrs   *BlockAttrs `bson:"attrs,omitempty" json:"attrs,omitempty"`
	Text    string      `bson:"text,omitempty" json:"text,omitempty"`
	Content []Block     `bson:"content,omitempty" json:"content,omitempty"`
}

// IsQuestionBlock reports whether this block type can be backed by a Question.
func (b *Block) IsQuestionBlock() bool {
	switch b.Type {
	case BlockChoiceList, BlockTextQuestion, BlockSignature, BlockUpload:
		return true
	}
	return false
}

// QuestionID returns the id of the backing question, or "" when the block is
// not question-bearing or has not been persisted yet.
func (b *Block) QuestionID() string {
	if !b.IsQuestionBlock() || b.Attrs == nil {
		return ""
	}
	return b.Attrs.ID
}

// SetQuestionID attaches the backing question id to the block. The id is
// stable for the block's lifetime once assigned.
func (b *Block) SetQuestionID(id string) {
	if b.Attrs == nil {
		b.Attrs = &BlockAttrs{}
	}
	b.Attrs.ID = id
}

// DefaultQuestionType maps a question-bearing block to the question type a
// newly created backing record gets.
func (b *Block) DefaultQuestionType() QuestionType {
	switch b.Type {
	case BlockChoiceList:
		if b.Attrs != nil && b.Attrs.Multiple {
			return Checkboxes
		}
		return RadioButtons
	case BlockSignature:
		return SignatureQuestion
	case BlockUpload:
		return Upload
	default:
		return ShortAnswer
	}
}

// NewDoc builds an empty document root.
func NewDoc(content ...Block) *Block {
	return &Block{Type: BlockDoc, Content: content}
}
