package api

import (
	"errors"
	"net/http"

	"ast3wart/clutchcam-api/service"
	"ast3wart/clutchcam-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) AssetUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("video")
	if err != nil {
		// Chunked bodies bypass the Content-Length fast reject and only
		// trip the MaxBytesReader here, while the form is being read
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success":   false,
				"error":     "Request body size exceeds limit",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     "No video file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.VideoValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.Error(err))

			// That's to set the error into a general one for the users
			err = errors.New("internal server error")
		}

		c.AbortWithStatusJSON(code, gin.H{
			"success":   false,
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	asset, err := a.Store.Create(f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success":   false,
				"error":     validators.ErrFileTypeUnsupported.Error(),
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store uploaded video", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"video":   asset,
	})
}
