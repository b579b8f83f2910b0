package handlers

import (
	"net/http"
	"strconv"

	"awareness-tool/internal/database"
	"awareness-tool/internal/models"

	"github.com/gin-gonic/gin"
)

func ListNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	var notifications []models.Notification
	if err := database.DB.Order("created_at desc").Limit(limit).Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Laden der Benachrichtigungen"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func ListUnreadNotifications(c *gin.Context) {
	var notifications []models.Notification
	if err := database.DB.Where("is_read = ?", false).Order("created_at desc").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Laden der Benachrichtigungen"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}

	if err := database.DB.Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Markieren der Benachrichtigung"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func MarkAllNotificationsRead(c *gin.Context) {
	res := database.DB.Model(&models.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Markieren der Benachrichtigungen"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": res.RowsAffected})
}

func DeleteNotification(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige ID"})
		return
	}

	if err := database.DB.Delete(&models.Notification{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Fehler beim Löschen der Benachrichtigung"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
