package controllers

import (
	"net/http"
	"strconv"

	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseUUIDParam parses a path parameter as a UUID, responding 400 on
// failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID reads the authenticated user's id from the context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	str, _ := raw.(string)
	id, err := uuid.Parse(str)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

// parsePeriodQuery reads ?month= and ?year= when both are present and
// form a valid accounting period.
func parsePeriodQuery(c *gin.Context) (month, year int, ok bool) {
	m, err1 := strconv.Atoi(c.Query("month"))
	y, err2 := strconv.Atoi(c.Query("year"))
	if err1 != nil || err2 != nil || m < 1 || m > 12 || y < 1 {
		return 0, 0, false
	}
	return m, y, true
}
