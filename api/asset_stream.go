package api

import (
	"errors"
	"net/http"

	"ast3wart/clutchcam-api/service"
	"ast3wart/clutchcam-api/stream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Only browser-streamable containers are accepted at upload, so the stream
// endpoint always reports the canonical video type
const streamContentType = "video/mp4"

func (a *API) AssetStream(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	assetID := c.Param("id")

	mediaPath, err := a.Store.ResolveMediaPath(assetID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Video file not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to resolve media path", zap.String("id", assetID), zap.Error(err))
		return
	}

	if err := stream.ServeFile(c, mediaPath, streamContentType); err != nil {
		zap.L().Error("Failed to stream media file", zap.String("id", assetID), zap.Error(err))

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Internal server error",
				"requestID": requestID,
			})
		}
	}
}
