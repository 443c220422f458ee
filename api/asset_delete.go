package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssetDelete removes an asset's media file and sidecar. Deleting an id that
// doesn't exist still returns 200, the operation is idempotent.
func (a *API) AssetDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	assetID := c.Param("id")

	if err := a.Store.Delete(assetID); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete asset", zap.String("id", assetID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Video deleted successfully",
	})
}
