package models

import (
	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Type string `bun:"type,notnull" json:"type"`
}

type Question struct {
	bun.BaseModel `bun:"table:questions"`

	ID         int64  `bun:"id,pk,autoincrement" json:"id"`
	Question   string `bun:"question,notnull" json:"question"`
	Answer     string `bun:"answer,notnull" json:"answer"`
	Category   int64  `bun:"category,notnull" json:"category"`
	Difficulty int    `bun:"difficulty,notnull" json:"difficulty"`
}

// QuestionRequest is the create-question payload. All four fields are
// mandatory; pointers distinguish an absent key from a zero value.
type QuestionRequest struct {
	Question   *string `json:"question" validate:"required"`
	Answer     *string `json:"answer" validate:"required"`
	Category   *int64  `json:"category" validate:"required"`
	Difficulty *int    `json:"difficulty" validate:"required"`
}
