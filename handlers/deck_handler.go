package handlers

import (
	"net/http"

	"flashdeck/services"

	"github.com/gin-gonic/gin"
)

type DeckHandler struct {
	deckService *services.DeckService
	cardService *services.CardService
}

func NewDeckHandler(deckService *services.DeckService, cardService *services.CardService) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		cardService: cardService,
	}
}

func (h *DeckHandler) CreateDeck(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.DeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := h.deckService.CreateDeck(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deck)
}

func (h *DeckHandler) GetUserDecks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	decks, err := h.deckService.GetUserDecks(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, decks)
}

func (h *DeckHandler) GetDeckByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	deck, err := h.deckService.GetDeckByID(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deck)
}

func (h *DeckHandler) UpdateDeck(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.DeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := h.deckService.UpdateDeck(c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deck)
}

func (h *DeckHandler) DeleteDeck(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(c.Param("id"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deck deleted successfully"})
}

func (h *DeckHandler) CreateCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.CreateCard(c.Param("id"), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

func (h *DeckHandler) GetDeckCards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	cards, err := h.cardService.GetDeckCards(c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

func (h *DeckHandler) UpdateCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.cardService.UpdateCard(c.Param("cardId"), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

func (h *DeckHandler) DeleteCard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(c.Param("cardId"), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Flashcard deleted successfully"})
}
