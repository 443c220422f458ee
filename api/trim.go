package api

import (
	"context"
	"errors"
	"net/http"

	"ast3wart/clutchcam-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type trimRequest struct {
	AssetID    string   `json:"assetId" binding:"required"`
	StartTime  *float64 `json:"startTime" binding:"required"`
	EndTime    *float64 `json:"endTime" binding:"required"`
	OutputName string   `json:"outputName"`
}

// TrimCreate cuts a sub-clip out of an asset by running the trim tool
// synchronously within the request.
func (a *API) TrimCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var req trimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Missing required fields: assetId, startTime, endTime",
			"requestID": requestID,
		})
		return
	}

	// Background context on purpose: once started a trim runs to completion,
	// a dropped client connection doesn't kill the tool
	result, err := a.Trimmer.Trim(context.Background(), req.AssetID, *req.StartTime, *req.EndTime, req.OutputName)
	if err != nil {
		var toolErr *service.ToolError
		var spawnErr *service.SpawnError

		switch {
		case errors.Is(err, service.ErrNotFound):
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Video not found",
				"requestID": requestID,
			})

		case errors.As(err, &toolErr):
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     toolErr.Error(),
				"requestID": requestID,
			})

			zap.L().Error("Trim tool failed",
				zap.String("assetID", req.AssetID),
				zap.Int("exit_code", toolErr.ExitCode),
				zap.String("stderr", toolErr.Stderr))

		case errors.As(err, &spawnErr):
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     spawnErr.Error(),
				"requestID": requestID,
			})

			zap.L().Error("Failed to spawn trim tool", zap.Error(err))

		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Trim failed", zap.String("assetID", req.AssetID), zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"outputVideo": result,
	})
}
