// Package middleware contains any custom middleware used in the app
package middleware

import (
	"ast3wart/clutchcam-api/util"

	"github.com/gin-gonic/gin"
)

// NewRequestIDMiddleware returns a middleware that tags every incoming
// request with a short random ID under the requestID context key, so log
// lines and error responses can be correlated
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("requestID", util.RandStr(10))
		c.Next()
	}
}
