package api

import (
	"errors"
	"net/http"

	"ast3wart/clutchcam-api/model"
	"ast3wart/clutchcam-api/service"

	"github.com/gin-gonic/gin"
)

type jobView struct {
	Success bool `json:"success"`
	model.Job
}

func (a *API) AnalysisStatus(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	jobID := c.Param("jobID")

	job, err := a.Jobs.Status(jobID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"success":   false,
				"error":     "Job not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusOK, jobView{Success: true, Job: job})
}
