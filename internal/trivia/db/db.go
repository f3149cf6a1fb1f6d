package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"showbook/internal/models"
	"showbook/internal/storage"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- CATEGORIES ----------------

func (d *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := d.Bun.NewSelect().Model(&categories).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// ---------------- QUESTIONS ----------------

func (d *DB) ListQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := d.Bun.NewSelect().Model(&questions).Order("id").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (d *DB) ListQuestionsByCategory(ctx context.Context, category int64) ([]models.Question, error) {
	var questions []models.Question
	err := d.Bun.NewSelect().
		Model(&questions).
		Where("category = ?", category).
		Order("id").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (d *DB) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	var question models.Question
	err := d.Bun.NewSelect().
		Model(&question).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// SearchQuestions matches question text case-insensitively against a
// wildcard-wrapped pattern, optionally restricted to a category. An empty
// term matches every row.
func (d *DB) SearchQuestions(ctx context.Context, term string, category *int64) ([]models.Question, error) {
	var questions []models.Question
	q := d.Bun.NewSelect().
		Model(&questions).
		Where("LOWER(question) LIKE ?", "%"+strings.ToLower(term)+"%").
		Order("id")
	if category != nil {
		q = q.Where("category = ?", *category)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return questions, nil
}

func (d *DB) CreateQuestion(ctx context.Context, question *models.Question) error {
	_, err := d.Bun.NewInsert().Model(question).Exec(ctx)
	return mapWriteErr(err)
}

func (d *DB) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := d.Bun.NewDelete().
		Model((*models.Question)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapWriteErr(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	// Class 23 covers integrity constraint violations.
	if errors.As(err, &pqErr) && strings.HasPrefix(string(pqErr.Code), "23") {
		return storage.ErrConflict
	}
	return err
}
