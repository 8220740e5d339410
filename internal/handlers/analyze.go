package handlers

import (
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Lanszs/QuickDART/internal/types"
)

var (
	analysisTypes = []string{"Flood", "Fire", "Collapsed Structure", "Road Damage"}

	analysisDamage = []string{
		types.DamageMinor,
		types.DamageMajor,
		types.DamageDestroyed,
	}
)

// Analyze is the stand-in for the image classification service. The verdict
// is derived from a hash of the upload so repeated runs against the same
// file stay stable.
func Analyze(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	defer file.Close()

	h := fnv.New32a()
	h.Write([]byte(header.Filename))

	if _, err := io.Copy(h, io.LimitReader(file, 1<<20)); err != nil {
		log.Printf("Failed to read uploaded image: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	sum := h.Sum32()
	confidence := 70.0 + float64(sum%250)/10.0

	result := types.AnalysisResult{
		Type:       analysisTypes[sum%uint32(len(analysisTypes))],
		Confidence: fmt.Sprintf("%.1f%%", confidence),
		Damage:     analysisDamage[(sum/7)%uint32(len(analysisDamage))],
		ImageURL:   fmt.Sprintf("/uploads/%s%s", uuid.NewString(), filepath.Ext(header.Filename)),
	}

	ctx.JSON(http.StatusOK, result)
}
