// utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError writes the standard error envelope.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// RespondWithData writes the standard success envelope.
func RespondWithData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// RespondWithMessage writes a success envelope with data and a
// human-readable message.
func RespondWithMessage(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{"success": true, "data": data, "message": message})
}
