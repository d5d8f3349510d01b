package main

import (
	"gsc/src/common"
	"gsc/src/middlewares"
	"gsc/src/models"
	"gsc/src/models/scopes"
	"gsc/src/types"
	"net/http"

	"github.com/gin-gonic/gin"
)

func appointmentHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/appointments", func(ctx *gin.Context) {
			actor := middlewares.Actor(ctx)
			var appointments []models.Appointment
			err := svc.db.WithContext(ctx).
				Scopes(scopes.VisibleTo(actor.Role, actor.ClientID)).
				Preload("Client").
				Preload("Agent").
				Order("date ASC").
				Limit(200).
				Find(&appointments).
				Error
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": appointments, "count": len(appointments)})
		}).
		POST("/appointments", middlewares.RequireStaff, func(ctx *gin.Context) {
			var body types.CreateAppointmentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			appt, err := common.CreateAppointment(ctx, svc.db, svc.notifier, middlewares.Actor(ctx), &body)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": appt})
		})
	return g
}
