package trivia_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"showbook/internal/models"
	"showbook/internal/storage"
	"showbook/internal/trivia"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockDBLayer) ListQuestions(ctx context.Context) ([]models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockDBLayer) ListQuestionsByCategory(ctx context.Context, category int64) ([]models.Question, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockDBLayer) GetQuestionByID(ctx context.Context, id int64) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockDBLayer) SearchQuestions(ctx context.Context, term string, category *int64) ([]models.Question, error) {
	args := m.Called(ctx, term, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockDBLayer) CreateQuestion(ctx context.Context, question *models.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockDBLayer) DeleteQuestion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryCache struct {
	mock.Mock
}

func (m *MockCategoryCache) GetCategories(ctx context.Context) (map[int64]string, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(map[int64]string), args.Bool(1)
}

func (m *MockCategoryCache) SetCategories(ctx context.Context, categories map[int64]string) {
	m.Called(ctx, categories)
}

func sampleCategories() []models.Category {
	return []models.Category{
		{ID: 1, Type: "Science"},
		{ID: 2, Type: "Art"},
		{ID: 3, Type: "Geography"},
		{ID: 4, Type: "History"},
		{ID: 5, Type: "Entertainment"},
		{ID: 6, Type: "Sports"},
	}
}

func sampleQuestions(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		questions = append(questions, models.Question{
			ID:         int64(i),
			Question:   fmt.Sprintf("Question %d?", i),
			Answer:     fmt.Sprintf("Answer %d", i),
			Category:   1,
			Difficulty: 1,
		})
	}
	return questions
}

func TestQuestionsPagePagination(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("ListQuestions", mock.Anything).Return(sampleQuestions(25), nil)
	mockDB.On("ListCategories", mock.Anything).Return(sampleCategories(), nil)

	page, err := service.QuestionsPage(context.Background(), 3, nil)

	assert.NoError(t, err)
	assert.Len(t, page.Questions, 5)
	assert.Equal(t, int64(21), page.Questions[0].ID)
	assert.Equal(t, 25, page.TotalQuestions)
	assert.Equal(t, "Science", page.Categories[1])
	assert.Nil(t, page.CurrentCategory)
}

func TestQuestionsPagePastTheEnd(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("ListQuestions", mock.Anything).Return(sampleQuestions(5), nil)
	mockDB.On("ListCategories", mock.Anything).Return(sampleCategories(), nil)

	page, err := service.QuestionsPage(context.Background(), 4, nil)

	assert.NoError(t, err)
	assert.NotNil(t, page.Questions)
	assert.Len(t, page.Questions, 0)
	// Total still reflects the whole filtered set
	assert.Equal(t, 5, page.TotalQuestions)
}

func TestQuestionsPageWithCategory(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	category := int64(2)
	mockDB.On("ListQuestionsByCategory", mock.Anything, category).Return(sampleQuestions(3), nil)
	mockDB.On("ListCategories", mock.Anything).Return(sampleCategories(), nil)

	page, err := service.QuestionsPage(context.Background(), 1, &category)

	assert.NoError(t, err)
	assert.Len(t, page.Questions, 3)
	assert.Equal(t, &category, page.CurrentCategory)
	mockDB.AssertNotCalled(t, "ListQuestions", mock.Anything)
}

func TestCategoriesReadThroughCache(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockCache := new(MockCategoryCache)
	service := trivia.NewTriviaService(mockDB, mockCache, nil)

	cached := map[int64]string{1: "Science"}
	mockCache.On("GetCategories", mock.Anything).Return(cached, true)

	categories, err := service.Categories(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, categories)
	mockDB.AssertNotCalled(t, "ListCategories", mock.Anything)
}

func TestCategoriesCacheMissFillsCache(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockCache := new(MockCategoryCache)
	service := trivia.NewTriviaService(mockDB, mockCache, nil)

	mockCache.On("GetCategories", mock.Anything).Return(nil, false)
	mockDB.On("ListCategories", mock.Anything).Return(sampleCategories(), nil)
	mockCache.On("SetCategories", mock.Anything, mock.Anything).Return()

	categories, err := service.Categories(context.Background())

	assert.NoError(t, err)
	assert.Len(t, categories, 6)
	assert.Equal(t, "Sports", categories[6])
	mockCache.AssertCalled(t, "SetCategories", mock.Anything, mock.Anything)
}

func TestCreateQuestionMissingField(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	question := "What is the heaviest organ in the human body?"
	answer := "The Liver"
	category := int64(1)
	// Difficulty deliberately absent
	_, err := service.CreateQuestion(context.Background(), models.QuestionRequest{
		Question: &question,
		Answer:   &answer,
		Category: &category,
	})

	assert.True(t, storage.IsValidation(err))
	mockDB.AssertNotCalled(t, "CreateQuestion", mock.Anything, mock.Anything)
}

func TestCreateQuestionValid(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("CreateQuestion", mock.Anything, mock.Anything).Return(nil)

	question := "Who discovered penicillin?"
	answer := "Alexander Fleming"
	category := int64(1)
	difficulty := 3
	created, err := service.CreateQuestion(context.Background(), models.QuestionRequest{
		Question:   &question,
		Answer:     &answer,
		Category:   &category,
		Difficulty: &difficulty,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Who discovered penicillin?", created.Question)
	mockDB.AssertExpectations(t)
}

func TestDeleteQuestionNotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("DeleteQuestion", mock.Anything, int64(999)).Return(storage.ErrNotFound)

	err := service.DeleteQuestion(context.Background(), 999)

	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestQuestionsByCategoryUnknownIDIsEmpty(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("ListQuestionsByCategory", mock.Anything, int64(42)).Return([]models.Question{}, nil)

	result, err := service.QuestionsByCategory(context.Background(), 42)

	assert.NoError(t, err)
	assert.NotNil(t, result.Questions)
	assert.Equal(t, 0, result.TotalQuestions)
	assert.Equal(t, int64(42), *result.CurrentCategory)
}

func TestNextQuizQuestionExcludesPrevious(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("ListQuestionsByCategory", mock.Anything, int64(1)).Return(sampleQuestions(3), nil)

	question, err := service.NextQuizQuestion(context.Background(), 1, []int64{1, 3})

	assert.NoError(t, err)
	assert.NotNil(t, question)
	assert.Equal(t, int64(2), question.ID)
}

func TestNextQuizQuestionExhausted(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("ListQuestionsByCategory", mock.Anything, int64(1)).Return(sampleQuestions(2), nil)

	question, err := service.NextQuizQuestion(context.Background(), 1, []int64{1, 2})

	assert.NoError(t, err)
	assert.Nil(t, question)
}

func TestNextQuizQuestionAllCategories(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := trivia.NewTriviaService(mockDB, nil, nil)

	mockDB.On("ListQuestions", mock.Anything).Return(sampleQuestions(4), nil)

	question, err := service.NextQuizQuestion(context.Background(), 0, nil)

	assert.NoError(t, err)
	assert.NotNil(t, question)
	mockDB.AssertNotCalled(t, "ListQuestionsByCategory", mock.Anything, mock.Anything)
}
