package trivia_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"showbook/internal/logger"
	"showbook/internal/models"
	"showbook/internal/storage"
	"showbook/internal/trivia"
)

type Handler struct {
	Service *trivia.TriviaService
	Logger  *logger.Logger
}

func NewHandler(service *trivia.TriviaService, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// Routes wires the trivia API onto a fresh router, CORS and the JSON
// error envelope for unmatched routes and methods included.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed)
	})

	r.Get("/categories", h.GetCategories)
	r.Get("/categories/{categoryID}/questions", h.QuestionsByCategory)
	r.Get("/questions", h.GetQuestions)
	r.Post("/questions", h.CreateQuestion)
	r.Delete("/questions/{questionID}", h.DeleteQuestion)
	r.Post("/questions/search", h.SearchQuestions)
	r.Post("/quizzes", h.Quiz)

	return r
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		h.logError("Failed to fetch categories", err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}

	var currentCategory *int64
	if raw := r.URL.Query().Get("currentCategory"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil {
			currentCategory = &parsed
		}
	}

	result, err := h.Service.QuestionsPage(r.Context(), page, currentCategory)
	if err != nil {
		h.logError("Failed to fetch questions", err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "questionID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	if err := h.Service.DeleteQuestion(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound)
			return
		}
		h.logError(fmt.Sprintf("Failed to delete question %d", id), err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	if _, err := h.Service.CreateQuestion(r.Context(), req); err != nil {
		if storage.IsValidation(err) {
			writeError(w, http.StatusUnprocessableEntity)
			return
		}
		h.logError("Failed to create question", err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	// A pointer distinguishes "searchTerm key absent" (an error) from an
	// empty term (matches everything).
	var req struct {
		SearchTerm      *string `json:"searchTerm"`
		CurrentCategory *int64  `json:"currentCategory"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SearchTerm == nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	result, err := h.Service.SearchQuestions(r.Context(), *req.SearchTerm, req.CurrentCategory)
	if err != nil {
		h.logError("Question search failed", err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) QuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	result, err := h.Service.QuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		h.logError(fmt.Sprintf("Failed to fetch questions for category %d", categoryID), err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuizCategory *struct {
			ID int64 `json:"id"`
		} `json:"quiz_category"`
		PreviousQuestions []int64 `json:"previous_questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuizCategory == nil {
		writeError(w, http.StatusBadRequest)
		return
	}

	question, err := h.Service.NextQuizQuestion(r.Context(), req.QuizCategory.ID, req.PreviousQuestions)
	if err != nil {
		h.logError("Failed to pick a quiz question", err)
		writeError(w, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"question": question})
}

func (h *Handler) logError(message string, err error) {
	if h.Logger != nil {
		h.Logger.Error("API", fmt.Sprintf("%s: %v", message, err))
	}
}

// ---------------- error envelope ----------------

var statusMessages = map[int]string{
	http.StatusBadRequest:                  "Bad Request",
	http.StatusNotFound:                    "Not Found",
	http.StatusMethodNotAllowed:            "Method Not Allowed",
	http.StatusRequestTimeout:              "Request Timeout",
	http.StatusUnprocessableEntity:         "Unprocessable Entity",
	http.StatusTooManyRequests:             "Too Many Requests",
	http.StatusRequestHeaderFieldsTooLarge: "Request Header Fields Too Large",
	http.StatusInternalServerError:         "Internal Server Error",
}

func writeError(w http.ResponseWriter, code int) {
	message, ok := statusMessages[code]
	if !ok {
		message = http.StatusText(code)
	}
	writeJSON(w, code, map[string]any{
		"success": false,
		"error":   code,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
