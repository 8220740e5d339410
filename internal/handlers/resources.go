package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lanszs/QuickDART/internal/memdb"
	"github.com/Lanszs/QuickDART/internal/models"
	"github.com/Lanszs/QuickDART/internal/types"
	"github.com/Lanszs/QuickDART/internal/utils"
)

type CreateTeamRequest struct {
	Name             string   `json:"name" binding:"required"`
	Department       string   `json:"department" binding:"required"`
	PersonnelCount   int      `json:"personnel_count"`
	BaseLatitude     *float64 `json:"base_latitude"`
	BaseLongitude    *float64 `json:"base_longitude"`
	CoverageRadiusKm float64  `json:"coverage_radius_km"`
}

type DeployTeamRequest struct {
	Status   string `json:"status" binding:"required"`
	Task     string `json:"task"`
	ReportID *int   `json:"report_id"`
}

type CreateAssetRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Location string `json:"location"`
	TeamID   *int   `json:"team_id"`
}

type DeployAssetRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location"`
}

type NotifyRequest struct {
	Message string `json:"message" binding:"required"`
}

func ListResources(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, memdb.DB.Resources())
}

// broadcastResource wraps a team or asset change in the shared resource
// event shape before fanning it out.
func broadcastResource(kind types.ResourceKind, action types.ResourceAction, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s %s event: %v", kind, action, err)
		return
	}

	BroadcastEvent(types.EventResourceUpdated, types.ResourceUpdatedEvent{
		Type:   kind,
		Action: action,
		Data:   data,
	})
}

func CreateTeam(ctx *gin.Context) {
	var req CreateTeamRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	team := memdb.DB.CreateTeam(models.Team{
		Name:             req.Name,
		Department:       req.Department,
		PersonnelCount:   req.PersonnelCount,
		BaseLatitude:     req.BaseLatitude,
		BaseLongitude:    req.BaseLongitude,
		CoverageRadiusKm: req.CoverageRadiusKm,
	})

	broadcastResource(types.ResourceTeam, types.ActionCreated, team)

	ctx.JSON(http.StatusCreated, team)
}

func DeleteTeam(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	if !memdb.DB.DeleteTeam(id) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	broadcastResource(types.ResourceTeam, types.ActionDeleted, gin.H{"id": id})

	ctx.JSON(http.StatusOK, gin.H{"message": "Team deleted successfully"})
}

func DeployTeam(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req DeployTeamRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	team, ok := memdb.DB.DeployTeam(id, req.Status, req.Task, req.ReportID)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	broadcastResource(types.ResourceTeam, types.ActionUpdated, team)

	// Deployment may flip the owned assets' statuses too.
	for _, asset := range team.Assets {
		broadcastResource(types.ResourceAsset, types.ActionUpdated, asset)
	}

	ctx.JSON(http.StatusOK, team)
}

// NotifyTeam drops a dispatch notice into the team's chat room.
func NotifyTeam(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid team ID"})
		return
	}

	var req NotifyRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if _, ok := memdb.DB.Team(id); !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}

	sender := "Command"
	if agent, err := utils.GetCurrentAgent(ctx); err == nil {
		sender = agent.AgencyID
	}

	room := types.TeamRoom(id)
	stored := memdb.DB.AppendMessage(models.ChatMessage{
		Sender:     sender,
		TargetRoom: room,
		Message:    req.Message,
		Timestamp:  time.Now().UTC(),
	})

	BroadcastToRoom(room, types.EventReceiveMessage, stored)

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}

func CreateAsset(ctx *gin.Context) {
	var req CreateAssetRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	asset := memdb.DB.CreateAsset(models.Asset{
		Name:     req.Name,
		Type:     req.Type,
		Location: req.Location,
		TeamID:   req.TeamID,
	})

	broadcastResource(types.ResourceAsset, types.ActionCreated, asset)

	ctx.JSON(http.StatusCreated, asset)
}

func DeleteAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	if !memdb.DB.DeleteAsset(id) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	broadcastResource(types.ResourceAsset, types.ActionDeleted, gin.H{"id": id})

	ctx.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func DeployAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	var req DeployAssetRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	asset, ok := memdb.DB.DeployAsset(id, req.Status, req.Location)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	broadcastResource(types.ResourceAsset, types.ActionUpdated, asset)

	ctx.JSON(http.StatusOK, asset)
}

// NotifyAsset routes an asset notice to its owning team's room, if any.
func NotifyAsset(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	var req NotifyRequest

	if err := ctx.BindJSON(&req); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	asset, ok := memdb.DB.Asset(id)

	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	if asset.TeamID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Asset is not assigned to a team"})
		return
	}

	sender := "Command"
	if agent, err := utils.GetCurrentAgent(ctx); err == nil {
		sender = agent.AgencyID
	}

	room := types.TeamRoom(*asset.TeamID)
	stored := memdb.DB.AppendMessage(models.ChatMessage{
		Sender:     sender,
		TargetRoom: room,
		Message:    req.Message,
		Timestamp:  time.Now().UTC(),
	})

	BroadcastToRoom(room, types.EventReceiveMessage, stored)

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}
