package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/models"
)

func ChatHistory(ctx *gin.Context) {
	room := ctx.Param("room")

	if room == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Room is required"})
		return
	}

	history := memdb.DB.History(room)
	if history == nil {
		history = []models.ChatMessage{}
	}

	ctx.JSON(http.StatusOK, history)
}
