package main

import (
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

func settingsHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/settings", middlewares.RequireAdmin, func(ctx *gin.Context) {
			var settings []models.Setting
			q := svc.db.WithContext(ctx)
			if group := ctx.Query("group"); group != "" {
				q = q.Where("\"group\" = ?", group)
			}
			if err := q.Order("setting_key ASC").Find(&settings).Error; err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings, "count": len(settings)})
		}).
		POST("/settings", middlewares.RequireAdmin, func(ctx *gin.Context) {
			var body types.CreateSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			setting := models.Setting{
				SettingKey:   body.Key,
				SettingValue: types.JSONBAny{Inner: body.Value},
				Group:        body.Group,
			}
			err := svc.db.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}, {Name: "group"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
			}).Create(&setting).Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": setting})
		})
	return g
}
