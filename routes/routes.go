package routes

import (
	"net/http"

	"flashdeck/handlers"
	"flashdeck/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	deckHandler *handlers.DeckHandler,
	studyHandler *handlers.StudyHandler,
	quizHandler *handlers.QuizHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Deck and flashcard routes
			decks := protected.Group("/decks")
			{
				decks.GET("", deckHandler.GetUserDecks)
				decks.POST("", deckHandler.CreateDeck)
				decks.GET("/:id", deckHandler.GetDeckByID)
				decks.PUT("/:id", deckHandler.UpdateDeck)
				decks.DELETE("/:id", deckHandler.DeleteDeck)
				decks.GET("/:id/cards", deckHandler.GetDeckCards)
				decks.POST("/:id/cards", deckHandler.CreateCard)
			}
			cards := protected.Group("/cards")
			{
				cards.PUT("/:cardId", deckHandler.UpdateCard)
				cards.DELETE("/:cardId", deckHandler.DeleteCard)
			}

			// Study routes
			study := protected.Group("/study")
			{
				study.POST("/session", studyHandler.RecordSession)
				study.GET("/due/:deckId", studyHandler.GetDueCards)
				study.GET("/progress/:deckId", studyHandler.GetDeckProgress)
				study.GET("/stats", studyHandler.GetStats)
			}

			// Quiz routes
			quiz := protected.Group("/quiz")
			{
				quiz.POST("/deck/:deckId", quizHandler.CreateQuiz)
				quiz.GET("/deck/:deckId/history", quizHandler.GetDeckHistory)
				quiz.GET("/history", quizHandler.GetUserHistory)
				quiz.GET("/:quizId", quizHandler.GetQuiz)
				quiz.POST("/:quizId/submit", quizHandler.SubmitQuiz)
				quiz.DELETE("/:quizId", quizHandler.DeleteQuiz)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
