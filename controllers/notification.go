package controllers

import (
	"errors"
	"net/http"

	"gestpro-backend/config"
	"gestpro-backend/models"
	"gestpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetNotifications lists the current user's notifications, newest
// first. ?unread=true narrows to unread ones.
func GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if c.Query("unread") == "true" {
		query = query.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve notifications")
		return
	}
	utils.RespondWithData(c, http.StatusOK, notifications)
}

// MarkNotificationRead marks one of the current user's notifications
// as read
func MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var notification models.Notification
	if err := config.DB.
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Notification not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !notification.Read {
		notification.Read = true
		if err := config.DB.Save(&notification).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification")
			return
		}
	}

	utils.RespondWithData(c, http.StatusOK, notification)
}

// MarkAllNotificationsRead marks every unread notification of the
// current user as read
func MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result := config.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, gin.H{"updated": result.RowsAffected}, "Notifications marked as read")
}
