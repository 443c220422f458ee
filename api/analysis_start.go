package api

import (
	"errors"
	"net/http"

	"ast3wart/clutchcam-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalysisStart registers a background analysis job for an asset and returns
// immediately with the job id. The handler never waits for the tool.
func (a *API) AnalysisStart(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	assetID := c.Param("assetID")

	jobID, err := a.Jobs.StartAnalysis(assetID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Video not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to start analysis", zap.String("assetID", assetID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"jobId":   jobID,
		"status":  "processing",
	})
}
