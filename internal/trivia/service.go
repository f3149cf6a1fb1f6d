package trivia

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/go-playground/validator/v10"

	"showbook/internal/logger"
	"showbook/internal/models"
	"showbook/internal/storage"
)

// QuestionsPerPage is the fixed page size of the question listing.
const QuestionsPerPage = 10

type DBLayer interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int64) ([]models.Question, error)
	GetQuestionByID(ctx context.Context, id int64) (*models.Question, error)
	SearchQuestions(ctx context.Context, term string, category *int64) ([]models.Question, error)
	CreateQuestion(ctx context.Context, question *models.Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// CategoryCache is an optional read-through cache for the id-to-type map.
type CategoryCache interface {
	GetCategories(ctx context.Context) (map[int64]string, bool)
	SetCategories(ctx context.Context, categories map[int64]string)
}

// QuestionsPage is the /questions response: one page of the filtered set,
// the pre-slice total, the full category map and the echoed filter.
type QuestionsPage struct {
	Questions       []models.Question `json:"questions"`
	TotalQuestions  int               `json:"totalQuestions"`
	Categories      map[int64]string  `json:"categories"`
	CurrentCategory *int64            `json:"currentCategory"`
}

// QuestionList is the response shape shared by search and
// questions-by-category: no category map, no pagination.
type QuestionList struct {
	Questions       []models.Question `json:"questions"`
	TotalQuestions  int               `json:"totalQuestions"`
	CurrentCategory *int64            `json:"currentCategory"`
}

type TriviaService struct {
	DB       DBLayer
	Cache    CategoryCache
	Logger   *logger.Logger
	validate *validator.Validate
}

func NewTriviaService(db DBLayer, cache CategoryCache, log *logger.Logger) *TriviaService {
	return &TriviaService{DB: db, Cache: cache, Logger: log, validate: validator.New()}
}

// Categories returns the full id-to-type map, read through the cache when
// one is wired.
func (s *TriviaService) Categories(ctx context.Context) (map[int64]string, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.GetCategories(ctx); ok {
			return cached, nil
		}
	}

	categories, err := s.DB.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	catMap := make(map[int64]string, len(categories))
	for _, category := range categories {
		catMap[category.ID] = category.Type
	}

	if s.Cache != nil {
		s.Cache.SetCategories(ctx, catMap)
	}
	return catMap, nil
}

// QuestionsPage fetches the filtered set, then slices the requested page in
// memory: totalQuestions reflects the filtered set, not the page.
func (s *TriviaService) QuestionsPage(ctx context.Context, page int, currentCategory *int64) (QuestionsPage, error) {
	var questions []models.Question
	var err error
	if currentCategory == nil {
		questions, err = s.DB.ListQuestions(ctx)
	} else {
		questions, err = s.DB.ListQuestionsByCategory(ctx, *currentCategory)
	}
	if err != nil {
		return QuestionsPage{}, fmt.Errorf("failed to list questions: %w", err)
	}

	categories, err := s.Categories(ctx)
	if err != nil {
		return QuestionsPage{}, err
	}

	return QuestionsPage{
		Questions:       paginate(questions, page),
		TotalQuestions:  len(questions),
		Categories:      categories,
		CurrentCategory: currentCategory,
	}, nil
}

func (s *TriviaService) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.DB.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("QUESTION", fmt.Sprintf("Deleted question %d", id))
	}
	return nil
}

// CreateQuestion rejects a payload missing any of the four fields before
// touching storage.
func (s *TriviaService) CreateQuestion(ctx context.Context, req models.QuestionRequest) (*models.Question, error) {
	if err := s.validate.Struct(req); err != nil {
		field := "question"
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			field = strings.ToLower(invalid[0].Field())
		}
		return nil, storage.NewValidationError(field, "is required")
	}

	question := models.Question{
		Question:   *req.Question,
		Answer:     *req.Answer,
		Category:   *req.Category,
		Difficulty: *req.Difficulty,
	}
	if err := s.DB.CreateQuestion(ctx, &question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("QUESTION", fmt.Sprintf("Created question %d in category %d", question.ID, question.Category))
	}
	return &question, nil
}

// SearchQuestions filters by substring and optional category. A nil
// category means unrestricted.
func (s *TriviaService) SearchQuestions(ctx context.Context, term string, currentCategory *int64) (QuestionList, error) {
	questions, err := s.DB.SearchQuestions(ctx, term, currentCategory)
	if err != nil {
		return QuestionList{}, fmt.Errorf("question search failed: %w", err)
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return QuestionList{
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: currentCategory,
	}, nil
}

// QuestionsByCategory never errors on an unknown category id: the result
// is an empty set with total 0.
func (s *TriviaService) QuestionsByCategory(ctx context.Context, categoryID int64) (QuestionList, error) {
	questions, err := s.DB.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return QuestionList{}, fmt.Errorf("failed to list questions for category %d: %w", categoryID, err)
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return QuestionList{
		Questions:       questions,
		TotalQuestions:  len(questions),
		CurrentCategory: &categoryID,
	}, nil
}

// NextQuizQuestion picks uniformly at random from the category's questions
// minus the previously served ids. Category 0 means all categories. A nil
// question means the pool is exhausted.
func (s *TriviaService) NextQuizQuestion(ctx context.Context, categoryID int64, previous []int64) (*models.Question, error) {
	var questions []models.Question
	var err error
	if categoryID == 0 {
		questions, err = s.DB.ListQuestions(ctx)
	} else {
		questions, err = s.DB.ListQuestionsByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz questions: %w", err)
	}

	served := make(map[int64]struct{}, len(previous))
	for _, id := range previous {
		served[id] = struct{}{}
	}

	candidates := questions[:0:0]
	for _, question := range questions {
		if _, ok := served[question.ID]; !ok {
			candidates = append(candidates, question)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	picked := candidates[rand.Intn(len(candidates))]
	return &picked, nil
}

// paginate returns rows [(page-1)*10, page*10) of the filtered set. Pages
// below 1 are treated as page 1; pages past the end are empty.
func paginate(questions []models.Question, page int) []models.Question {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * QuestionsPerPage
	if start >= len(questions) {
		return []models.Question{}
	}
	end := start + QuestionsPerPage
	if end > len(questions) {
		end = len(questions)
	}
	return questions[start:end]
}
