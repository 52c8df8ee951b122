package handlers

import (
	"errors"
	"net/http"

	"flashdeck/apperrors"

	"github.com/gin-gonic/gin"
)

// currentUser reads the user ID stored by the auth middleware.
func currentUser(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}

// respondError maps the core error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage or programming failure and surfaces
// as a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidScore),
		errors.Is(err, apperrors.ErrInvalidQuestionCount),
		errors.Is(err, apperrors.ErrInvalidAnswer),
		errors.Is(err, apperrors.ErrEmptyDeck),
		errors.Is(err, apperrors.ErrZeroQuestions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConcurrentUpdate),
		errors.Is(err, apperrors.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
