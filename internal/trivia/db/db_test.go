package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"showbook/internal/models"
	"showbook/internal/storage"
	"showbook/internal/trivia/db"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Category)(nil), (*models.Question)(nil),
	} {
		if err := bunDB.ResetModel(ctx, model); err != nil {
			t.Fatalf("Failed to reset model %T: %v", model, err)
		}
	}

	t.Cleanup(func() { bunDB.Close() })
	return &db.DB{Bun: bunDB}
}

func seedCategories(t *testing.T, database *db.DB) {
	ctx := context.Background()
	categories := []models.Category{
		{Type: "Science"}, {Type: "Art"}, {Type: "Geography"},
		{Type: "History"}, {Type: "Entertainment"}, {Type: "Sports"},
	}
	for i := range categories {
		if _, err := database.Bun.NewInsert().Model(&categories[i]).Exec(ctx); err != nil {
			t.Fatalf("Failed to seed category: %v", err)
		}
	}
}

func TestListCategories(t *testing.T) {
	database := setupTestDB(t)
	seedCategories(t, database)

	categories, err := database.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("Failed to list categories: %v", err)
	}
	if len(categories) != 6 {
		t.Fatalf("Expected 6 categories, got %d", len(categories))
	}
	if categories[0].Type != "Science" {
		t.Errorf("Expected first category Science, got %q", categories[0].Type)
	}
	if categories[5].Type != "Sports" {
		t.Errorf("Expected last category Sports, got %q", categories[5].Type)
	}
}

func TestCreateAndGetQuestion(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	question := models.Question{
		Question:   "What is the largest lake in Africa?",
		Answer:     "Lake Victoria",
		Category:   3,
		Difficulty: 2,
	}
	if err := database.CreateQuestion(ctx, &question); err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}
	if question.ID == 0 {
		t.Fatal("Expected question ID to be assigned on insert")
	}

	got, err := database.GetQuestionByID(ctx, question.ID)
	if err != nil {
		t.Fatalf("Failed to retrieve question: %v", err)
	}
	if got.Answer != "Lake Victoria" {
		t.Errorf("Expected answer Lake Victoria, got %q", got.Answer)
	}
}

func TestGetQuestionByIDNotFound(t *testing.T) {
	database := setupTestDB(t)

	_, err := database.GetQuestionByID(context.Background(), 9999)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSearchQuestions(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	fixtures := []models.Question{
		{Question: "What boxer's original name is Cassius Clay?", Answer: "Muhammad Ali", Category: 4, Difficulty: 1},
		{Question: "The Taj Mahal is located in which Indian city?", Answer: "Agra", Category: 3, Difficulty: 2},
		{Question: "What is the largest lake in Africa?", Answer: "Lake Victoria", Category: 3, Difficulty: 2},
	}
	for i := range fixtures {
		if err := database.CreateQuestion(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Failed to create question: %v", err)
		}
	}

	// Case-insensitive substring match
	questions, err := database.SearchQuestions(ctx, "TAJ", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("Expected 1 question matching TAJ, got %d", len(questions))
	}

	// Empty term matches everything
	questions, err = database.SearchQuestions(ctx, "", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("Expected empty term to match all 3 questions, got %d", len(questions))
	}

	// Category filter narrows the match set
	category := int64(3)
	questions, err = database.SearchQuestions(ctx, "what", &category)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(questions) != 1 {
		t.Errorf("Expected 1 category-3 question matching, got %d", len(questions))
	}
}

func TestListQuestionsByCategory(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	fixtures := []models.Question{
		{Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3},
		{Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: 1, Difficulty: 4},
		{Question: "La Giaconda is better known as what?", Answer: "Mona Lisa", Category: 2, Difficulty: 3},
	}
	for i := range fixtures {
		if err := database.CreateQuestion(ctx, &fixtures[i]); err != nil {
			t.Fatalf("Failed to create question: %v", err)
		}
	}

	questions, err := database.ListQuestionsByCategory(ctx, 1)
	if err != nil {
		t.Fatalf("Failed to list questions: %v", err)
	}
	if len(questions) != 2 {
		t.Errorf("Expected 2 science questions, got %d", len(questions))
	}

	// Unknown category yields an empty set, not an error
	questions, err = database.ListQuestionsByCategory(ctx, 42)
	if err != nil {
		t.Fatalf("Failed to list questions: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("Expected no questions for unknown category, got %d", len(questions))
	}
}

func TestDeleteQuestion(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	question := models.Question{Question: "Q?", Answer: "A", Category: 1, Difficulty: 1}
	if err := database.CreateQuestion(ctx, &question); err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}

	if err := database.DeleteQuestion(ctx, question.ID); err != nil {
		t.Fatalf("Failed to delete question: %v", err)
	}

	if err := database.DeleteQuestion(ctx, question.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}
