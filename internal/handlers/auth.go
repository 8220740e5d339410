package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/auth"
	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/types"
)

type LoginRequest struct {
	AgencyID string `json:"agency_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	role, ok := memdb.DB.Authenticate(req.AgencyID, req.Password)

	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid agency ID or password"})
		return
	}

	token, err := auth.GenerateJWT(req.AgencyID, role)

	if err != nil {
		log.Printf("Failed to generate JWT: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, types.LoginResponse{
		Token: token,
		Role:  role,
	})
}
