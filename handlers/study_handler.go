package handlers

import (
	"net/http"

	"flashdeck/services"

	"github.com/gin-gonic/gin"
)

type StudyHandler struct {
	studyService *services.StudyService
}

func NewStudyHandler(studyService *services.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

type StudySessionRequest struct {
	FlashcardID string `json:"flashcard_id" binding:"required"`
	DeckID      string `json:"deck_id" binding:"required"`
	Score       int    `json:"score"`
}

func (h *StudyHandler) RecordSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req StudySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := h.studyService.RecordReview(userID, req.FlashcardID, req.DeckID, req.Score)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *StudyHandler) GetDueCards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	states, err := h.studyService.DueCards(userID, c.Param("deckId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, states)
}

func (h *StudyHandler) GetDeckProgress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	progress, err := h.studyService.DeckProgress(userID, c.Param("deckId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *StudyHandler) GetStats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.studyService.Stats(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
