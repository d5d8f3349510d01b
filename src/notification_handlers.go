package main

import (
	"errors"
	"fmt"
	"gsc/src/lifecycle"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/types"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownNotifications matches what was sent to the user or to their client profile.
func ownNotifications(ctx *gin.Context, tx *gorm.DB) *gorm.DB {
	actor := middlewares.Actor(ctx)
	userID := ctx.GetUint("id")
	if actor.ClientID != nil {
		return tx.Where("user_id = ? OR client_id = ?", userID, *actor.ClientID)
	}
	return tx.Where("user_id = ?", userID)
}

func notificationHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			var filters types.NotificationsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			limit := filters.Limit
			if limit == 0 {
				limit = 50
			}
			q := ownNotifications(ctx, svc.db.WithContext(ctx).Model(&models.Notification{}))
			if filters.Unread {
				q = q.Where("is_read = ?", false)
			}
			var notifications []models.Notification
			if err := q.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
		}).
		GET("/notifications/unread_count", func(ctx *gin.Context) {
			var count int64
			q := ownNotifications(ctx, svc.db.WithContext(ctx).Model(&models.Notification{}))
			if err := q.Where("is_read = ?", false).Count(&count).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": count})
		}).
		POST("/notifications/:id/mark_as_read", func(ctx *gin.Context) {
			id, err := uuid.Parse(ctx.Param("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
				return
			}
			tx := svc.db.WithContext(ctx)
			var notification models.Notification
			if err := ownNotifications(ctx, tx).Where("id = ?", id).First(&notification).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					err = fmt.Errorf("%w: notification %s", lifecycle.ErrNotFound, id)
				}
				respondError(ctx, err)
				return
			}
			if err := notification.MarkAsRead(tx); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": notification})
		}).
		POST("/notifications/mark_all_as_read", func(ctx *gin.Context) {
			res := ownNotifications(ctx, svc.db.WithContext(ctx).Model(&models.Notification{})).
				Where("is_read = ?", false).
				Updates(map[string]any{"is_read": true, "read_at": time.Now().UTC()})
			if res.Error != nil {
				respondError(ctx, res.Error)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"count": res.RowsAffected})
		})
	return g
}
