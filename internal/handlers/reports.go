package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
)

type CreateReportRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	DamageLevel string   `json:"damage_level"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ImageURL    string   `json:"image_url"`
}

type UpdateReportRequest struct {
	Status      *string `json:"status"`
	DamageLevel *string `json:"damage_level"`
}

func ListReports(ctx *gin.Context) {
	teamID := 0

	if raw := ctx.Query("team_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
			return
		}
		teamID = parsed
	}

	ctx.JSON(http.StatusOK, memdb.DB.ListReports(teamID))
}

func CreateReport(ctx *gin.Context) {
	var req CreateReportRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Status == "" {
		req.Status = types.ReportPending
	}

	report := memdb.DB.CreateReport(models.Report{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DamageLevel: req.DamageLevel,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
	})

	BroadcastEvent(types.EventNewReport, report)

	ctx.JSON(http.StatusCreated, report)
}

func UpdateReport(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req UpdateReportRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, ok := memdb.DB.UpdateReport(id, req.Status, req.DamageLevel)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	BroadcastEvent(types.EventReportUpdated, report)

	ctx.JSON(http.StatusOK, report)
}
