package handlers

import (
	"net/http"
	"strconv"

	"flashdeck/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

const defaultQuestionCount = 10

func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count := defaultQuestionCount
	if raw := c.Query("questions"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question count"})
			return
		}
		count = parsed
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), c.Param("deckId"), userID, count)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	var answers map[string]int
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz, err := h.quizService.SubmitQuiz(c.Request.Context(), c.Param("quizId"), answers)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) GetQuiz(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	quiz, err := h.quizService.GetQuiz(c.Request.Context(), c.Param("quizId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

func (h *QuizHandler) GetUserHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.UserHistory(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) GetDeckHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.DeckHistory(c.Param("deckId"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(c.Request.Context(), c.Param("quizId"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted successfully"})
}
