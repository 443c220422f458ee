package api

import (
	"errors"
	"net/http"

	"ast3wart/clutchcam-api/model"
	"ast3wart/clutchcam-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type videoView struct {
	model.Asset
	URL string `json:"url"`
}

func (a *API) AssetFetch(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	assetID := c.Param("id")

	asset, err := a.Store.Get(assetID)
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

		zap.L().Error("Failed to read asset metadata", zap.String("id", assetID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"video": videoView{
			Asset: *asset,
			URL:   "/api/assets/" + asset.ID + "/stream",
		},
	})
}
