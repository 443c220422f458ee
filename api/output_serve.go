package api

import (
	"net/http"
	"os"
	"path/filepath"

	"ast3wart/clutchcam-api/stream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OutputServe serves a trimmed clip from the outputs directory for download,
// with the same range support as the asset stream endpoint.
func (a *API) OutputServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	filename := c.Param("filename")

	// Outputs are addressed by bare filename only, anything path-like is
	// rejected before touching the filesystem
	if filename == "" || filename != filepath.Base(filename) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "Invalid file name",
			"requestID": requestID,
		})
		return
	}

	outputPath := filepath.Join(a.Trimmer.OutputDir(), filename)
	if _, err := os.Stat(outputPath); err != nil {
		if os.IsNotExist(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Output not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to stat output file", zap.String("file", filename), zap.Error(err))
		return
	}

	if err := stream.ServeFile(c, outputPath, streamContentType); err != nil {
		zap.L().Error("Failed to serve output file", zap.String("file", filename), zap.Error(err))

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Internal server error",
				"requestID": requestID,
			})
		}
	}
}
